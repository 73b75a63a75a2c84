package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/constant"
	"github.com/Xushengqwer/content_service/models/entities"
	"github.com/Xushengqwer/content_service/myErrors"
)

// buildFileHeader 构造一个可打开的 multipart.FileHeader 供上传测试使用。
func buildFileHeader(t *testing.T, filename string, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	partHeader := make(map[string][]string)
	partHeader["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	partHeader["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("create multipart part failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write multipart content failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 4096)
	if err != nil {
		t.Fatalf("parse multipart form failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("parsed %d file headers, want 1", len(files))
	}
	return files[0]
}

func TestUploadTemporary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	fileHeader := buildFileHeader(t, "Báo cáo.JPG", "image/jpeg", []byte("fake-jpeg-bytes"))

	result, err := env.attachmentSvc.UploadTemporary(ctx, fileHeader, "image", "user-1")
	if err != nil {
		t.Fatalf("UploadTemporary failed: %v", err)
	}
	if result.ID == 0 {
		t.Fatal("uploaded attachment has no ID")
	}
	if !result.IsTemporary {
		t.Error("uploaded attachment should be temporary")
	}
	if result.OriginalFileName != "Báo cáo.JPG" {
		t.Errorf("original file name = %q, want original preserved", result.OriginalFileName)
	}

	att := env.repo.get(result.ID)
	if !strings.HasPrefix(att.StoragePath, constant.COSObjectKeyPrefixTemp) {
		t.Errorf("storage path %q not under temp prefix", att.StoragePath)
	}
	// 原始文件名绝不进入存储键，只保留小写扩展名。
	if strings.Contains(att.StoragePath, "Báo") {
		t.Errorf("storage path %q leaked the original file name", att.StoragePath)
	}
	if !strings.HasSuffix(att.StoragePath, ".jpg") {
		t.Errorf("storage path %q should end with lowercased extension .jpg", att.StoragePath)
	}
	if _, exists := env.cosCli.objects[att.StoragePath]; !exists {
		t.Error("uploaded object missing from storage")
	}
	if result.URL != env.cosCli.BuildPublicURL(att.StoragePath) {
		t.Errorf("public URL = %q, want derived from storage path", result.URL)
	}
}

func TestUploadTemporaryStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	env.cosCli.uploadErr = errors.New("cos unavailable")
	fileHeader := buildFileHeader(t, "a.png", "image/png", []byte("x"))

	if _, err := env.attachmentSvc.UploadTemporary(context.Background(), fileHeader, "image", "user-1"); err == nil {
		t.Fatal("UploadTemporary should fail when storage write fails")
	}
	if len(env.repo.byID) != 0 {
		t.Error("no metadata row may exist when the object was never stored")
	}
}

func TestPromoteToPermanentIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	att := env.seedBound(1, entities.ObjectTypeNews, 10, false, false)
	clone := *att

	if err := env.attachmentSvc.PromoteToPermanent(context.Background(), nil, &clone); err != nil {
		t.Fatalf("PromoteToPermanent on permanent attachment failed: %v", err)
	}
	if env.cosCli.moveCalls != 0 {
		t.Error("promoting an already permanent attachment must not touch storage")
	}
	if env.repo.writeCount != 0 {
		t.Error("promoting an already permanent attachment must not write metadata")
	}
}

func TestPromoteToPermanentMovesObject(t *testing.T) {
	env := newTestEnv(t)
	env.seedTemp(1)
	clone := *env.repo.get(1)

	if err := env.attachmentSvc.PromoteToPermanent(context.Background(), nil, &clone); err != nil {
		t.Fatalf("PromoteToPermanent failed: %v", err)
	}
	if clone.IsTemporary {
		t.Error("attachment still temporary after promotion")
	}
	if !strings.HasPrefix(clone.StoragePath, "uploads/images/") {
		t.Errorf("permanent key %q not under images category", clone.StoragePath)
	}
	if !strings.HasSuffix(clone.StoragePath, "/1.jpg") {
		t.Errorf("permanent key %q not derived from attachment ID", clone.StoragePath)
	}
	if len(env.cosCli.moves) != 1 {
		t.Fatalf("COS moves = %d, want 1", len(env.cosCli.moves))
	}
	if stored := env.repo.get(1); stored.IsTemporary || stored.StoragePath != clone.StoragePath {
		t.Error("metadata row not updated after promotion")
	}
}

func TestPromoteToPermanentMissingSourceUpdatesMetadataOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seedTemp(1)
	// 源对象已不存在：按“早前移动已完成”处理。
	delete(env.cosCli.objects, env.repo.get(1).StoragePath)
	clone := *env.repo.get(1)

	if err := env.attachmentSvc.PromoteToPermanent(context.Background(), nil, &clone); err != nil {
		t.Fatalf("PromoteToPermanent with missing source failed: %v", err)
	}
	if env.cosCli.moveCalls != 0 {
		t.Error("no move may be attempted when the source object is gone")
	}
	if clone.IsTemporary || strings.HasPrefix(clone.StoragePath, constant.COSObjectKeyPrefixTemp) {
		t.Error("metadata was not switched to the permanent key")
	}
}

func TestPromoteToPermanentRetriesThenFails(t *testing.T) {
	env := newTestEnv(t)
	env.seedTemp(1)
	env.cosCli.moveErr = errors.New("transient cos failure")
	clone := *env.repo.get(1)

	err := env.attachmentSvc.PromoteToPermanent(context.Background(), nil, &clone)
	if err == nil {
		t.Fatal("PromoteToPermanent should fail when the move keeps failing")
	}
	if !errors.Is(err, myErrors.ErrStorageFailure) {
		t.Errorf("error = %v, want ErrStorageFailure", err)
	}
	if env.cosCli.moveCalls != constant.PromoteMaxRetries {
		t.Errorf("move attempts = %d, want %d", env.cosCli.moveCalls, constant.PromoteMaxRetries)
	}
	if stored := env.repo.get(1); !stored.IsTemporary {
		t.Error("metadata must stay temporary when the move never succeeded")
	}
}

func TestPromoteToPermanentRejectsForeignTempPath(t *testing.T) {
	env := newTestEnv(t)
	att := &entities.Attachment{
		StoragePath: "uploads/images/2025/08/evil.jpg",
		ContentType: "image/jpeg",
		IsTemporary: true,
	}
	att.ID = 1

	if err := env.attachmentSvc.PromoteToPermanent(context.Background(), nil, att); err == nil {
		t.Fatal("temporary attachment outside the temp prefix must be rejected")
	}
}

func TestExpireStaleTemporary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	stale := env.seedTemp(1)
	stale.CreatedAt = time.Now().Add(-48 * time.Hour)
	env.seedTemp(2) // 仍在保留窗口内
	env.seedBound(3, entities.ObjectTypeNews, 10, false, false)

	expired, err := env.attachmentSvc.ExpireStaleTemporary(ctx, 24*time.Hour, 100)
	if err != nil {
		t.Fatalf("ExpireStaleTemporary failed: %v", err)
	}
	if len(expired) != 1 || expired[0] != 1 {
		t.Fatalf("expired IDs = %v, want [1]", expired)
	}

	if !env.repo.get(1).DeletedAt.Valid {
		t.Error("stale temporary attachment was not soft-deleted")
	}
	if len(env.cosCli.deleted) != 1 || env.cosCli.deleted[0] != stale.StoragePath {
		t.Errorf("deleted objects = %v, want [%s]", env.cosCli.deleted, stale.StoragePath)
	}
	if env.repo.get(2).DeletedAt.Valid {
		t.Error("fresh temporary attachment must not be swept")
	}
	if env.repo.get(3).DeletedAt.Valid {
		t.Error("bound permanent attachment must not be swept")
	}
}

func TestExpireStaleTemporaryNothingToDo(t *testing.T) {
	env := newTestEnv(t)

	expired, err := env.attachmentSvc.ExpireStaleTemporary(context.Background(), 24*time.Hour, 100)
	if err != nil {
		t.Fatalf("ExpireStaleTemporary failed: %v", err)
	}
	if len(expired) != 0 {
		t.Fatalf("expired IDs = %v, want empty", expired)
	}
	if env.repo.writeCount != 0 {
		t.Error("sweep with nothing to do must not write")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.attachmentSvc.GetByID(context.Background(), 404); err == nil {
		t.Fatal("GetByID on a missing attachment should fail")
	}
}

func TestListByEntityOrdersByDisplayOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.seedBound(1, entities.ObjectTypeNews, 10, false, false)
	first.OrderIndex = 2
	second := env.seedBound(2, entities.ObjectTypeNews, 10, false, false)
	second.OrderIndex = 1
	deleted := env.seedBound(3, entities.ObjectTypeNews, 10, false, false)
	deleted.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}

	list, err := env.attachmentSvc.ListByEntity(ctx, entities.ObjectTypeNews, 10)
	if err != nil {
		t.Fatalf("ListByEntity failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2 (deleted rows excluded)", len(list))
	}
	if list[0].ID != 2 || list[1].ID != 1 {
		t.Errorf("list order = [%d %d], want [2 1] (order_index asc)", list[0].ID, list[1].ID)
	}
}
