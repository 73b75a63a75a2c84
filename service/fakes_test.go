package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/tencentyun/cos-go-sdk-v5"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/entities"
)

func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	if err != nil {
		t.Fatalf("init test logger failed: %v", err)
	}
	return logger
}

// fakeTxManager 直接以 nil 事务句柄执行回调，仓库侧的 fake 不使用该句柄。
type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// fakeAttachmentRepo 是 AttachmentRepository 的内存实现。
// 读方法返回副本，写方法记入 writeCount，便于断言“无变化时零写入”。
type fakeAttachmentRepo struct {
	byID       map[uint64]*entities.Attachment
	nextID     uint64
	writeCount int
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{byID: map[uint64]*entities.Attachment{}}
}

func (r *fakeAttachmentRepo) get(id uint64) *entities.Attachment {
	return r.byID[id]
}

func (r *fakeAttachmentRepo) put(att *entities.Attachment) {
	if att.ID == 0 {
		r.nextID++
		att.ID = r.nextID
	} else if att.ID > r.nextID {
		r.nextID = att.ID
	}
	r.byID[att.ID] = att
}

func (r *fakeAttachmentRepo) Create(_ context.Context, _ *gorm.DB, attachment *entities.Attachment) error {
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = time.Now()
	}
	r.put(attachment)
	r.writeCount++
	return nil
}

func (r *fakeAttachmentRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uint64, fields map[string]interface{}) error {
	att, ok := r.byID[id]
	if !ok {
		return commonerrors.ErrRepoNotFound
	}
	for key, value := range fields {
		switch key {
		case "object_type":
			att.ObjectType = sql.NullString{String: value.(string), Valid: true}
		case "object_id":
			att.ObjectID = sql.NullInt64{Int64: int64(value.(uint64)), Valid: true}
		case "is_primary":
			att.IsPrimary = value.(bool)
		case "is_content_image":
			att.IsContentImage = value.(bool)
		case "is_temporary":
			att.IsTemporary = value.(bool)
		case "order_index":
			att.OrderIndex = value.(int)
		case "storage_path":
			att.StoragePath = value.(string)
		case "public_url":
			att.PublicURL = value.(string)
		case "modified_by":
			att.ModifiedBy = value.(string)
		}
	}
	r.writeCount++
	return nil
}

func (r *fakeAttachmentRepo) FindByID(_ context.Context, id uint64) (*entities.Attachment, error) {
	att, ok := r.byID[id]
	if !ok || att.DeletedAt.Valid {
		return nil, commonerrors.ErrRepoNotFound
	}
	clone := *att
	return &clone, nil
}

func (r *fakeAttachmentRepo) FindByIDUnscoped(_ context.Context, _ *gorm.DB, id uint64) (*entities.Attachment, error) {
	att, ok := r.byID[id]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	clone := *att
	return &clone, nil
}

func (r *fakeAttachmentRepo) collect(filter func(*entities.Attachment) bool) []*entities.Attachment {
	var result []*entities.Attachment
	for _, att := range r.byID {
		if filter(att) {
			clone := *att
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *fakeAttachmentRepo) FindByObject(_ context.Context, objectType entities.ObjectType, objectID uint64) ([]*entities.Attachment, error) {
	result := r.collect(func(att *entities.Attachment) bool {
		return !att.DeletedAt.Valid && att.BoundTo(objectType, objectID)
	})
	sort.Slice(result, func(i, j int) bool {
		if result[i].OrderIndex != result[j].OrderIndex {
			return result[i].OrderIndex < result[j].OrderIndex
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *fakeAttachmentRepo) FindGalleryByObject(_ context.Context, objectType entities.ObjectType, objectID uint64) ([]*entities.Attachment, error) {
	return r.collect(func(att *entities.Attachment) bool {
		return !att.DeletedAt.Valid && att.BoundTo(objectType, objectID) && !att.IsPrimary && !att.IsContentImage
	}), nil
}

func (r *fakeAttachmentRepo) FindPrimaryByObject(_ context.Context, objectType entities.ObjectType, objectID uint64) ([]*entities.Attachment, error) {
	return r.collect(func(att *entities.Attachment) bool {
		return !att.DeletedAt.Valid && att.BoundTo(objectType, objectID) && att.IsPrimary
	}), nil
}

func (r *fakeAttachmentRepo) FindTemporaryOlderThan(_ context.Context, cutoff time.Time, limit int) ([]*entities.Attachment, error) {
	result := r.collect(func(att *entities.Attachment) bool {
		return !att.DeletedAt.Valid && att.IsTemporary && att.CreatedAt.Before(cutoff)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeAttachmentRepo) SoftDeleteByIDs(_ context.Context, _ *gorm.DB, ids []uint64) error {
	for _, id := range ids {
		if att, ok := r.byID[id]; ok {
			att.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		}
	}
	r.writeCount++
	return nil
}

func (r *fakeAttachmentRepo) SoftDeleteByObject(_ context.Context, _ *gorm.DB, objectType entities.ObjectType, objectID uint64) error {
	for _, att := range r.byID {
		if !att.DeletedAt.Valid && att.BoundTo(objectType, objectID) {
			att.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
		}
	}
	r.writeCount++
	return nil
}

func (r *fakeAttachmentRepo) SoftDeleteSupersededPrimary(_ context.Context, _ *gorm.DB, objectType entities.ObjectType, objectID uint64, keepIDs []uint64) error {
	keep := map[uint64]struct{}{}
	for _, id := range keepIDs {
		keep[id] = struct{}{}
	}
	for _, att := range r.byID {
		if att.DeletedAt.Valid || !att.BoundTo(objectType, objectID) || !att.IsPrimary {
			continue
		}
		if _, kept := keep[att.ID]; kept {
			continue
		}
		att.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	r.writeCount++
	return nil
}

func (r *fakeAttachmentRepo) Restore(_ context.Context, _ *gorm.DB, id uint64) error {
	att, ok := r.byID[id]
	if !ok {
		return commonerrors.ErrRepoNotFound
	}
	att.DeletedAt = gorm.DeletedAt{}
	r.writeCount++
	return nil
}

// fakeEntityImageRepo 记录实体特色图快照字段的回写调用。
type fakeEntityImageRepo struct {
	featured    map[string]uint64
	imageURL    map[string]string
	setCalls    int
	clearCalls  int
	notFoundErr bool
}

func newFakeEntityImageRepo() *fakeEntityImageRepo {
	return &fakeEntityImageRepo{
		featured: map[string]uint64{},
		imageURL: map[string]string{},
	}
}

func entityKey(objectType entities.ObjectType, objectID uint64) string {
	return fmt.Sprintf("%s:%d", objectType, objectID)
}

func (r *fakeEntityImageRepo) SetFeaturedImage(_ context.Context, _ *gorm.DB, objectType entities.ObjectType, objectID uint64, imageURL string, attachmentID uint64) error {
	if r.notFoundErr {
		return commonerrors.ErrRepoNotFound
	}
	r.setCalls++
	r.featured[entityKey(objectType, objectID)] = attachmentID
	r.imageURL[entityKey(objectType, objectID)] = imageURL
	return nil
}

func (r *fakeEntityImageRepo) ClearFeaturedImage(_ context.Context, _ *gorm.DB, objectType entities.ObjectType, objectID uint64) error {
	if r.notFoundErr {
		return commonerrors.ErrRepoNotFound
	}
	r.clearCalls++
	delete(r.featured, entityKey(objectType, objectID))
	delete(r.imageURL, entityKey(objectType, objectID))
	return nil
}

// fakeCOSClient 以内存集合模拟对象存储。
type fakeCOSClient struct {
	objects   map[string]struct{}
	moves     [][2]string
	deleted   []string
	moveCalls int
	moveErr   error
	uploadErr error
}

func newFakeCOSClient() *fakeCOSClient {
	return &fakeCOSClient{objects: map[string]struct{}{}}
}

func (c *fakeCOSClient) GetClient() *cos.Client { return nil }

func (c *fakeCOSClient) BuildPublicURL(objectKey string) string {
	return "https://cdn.example.com/" + strings.TrimPrefix(objectKey, "/")
}

func (c *fakeCOSClient) UploadFile(_ context.Context, objectKey string, reader io.Reader, _ int64, _ string) (string, error) {
	if c.uploadErr != nil {
		return "", c.uploadErr
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	c.objects[objectKey] = struct{}{}
	return c.BuildPublicURL(objectKey), nil
}

func (c *fakeCOSClient) DeleteObject(_ context.Context, objectKey string) error {
	delete(c.objects, objectKey)
	c.deleted = append(c.deleted, objectKey)
	return nil
}

func (c *fakeCOSClient) ObjectExists(_ context.Context, objectKey string) (bool, error) {
	_, ok := c.objects[objectKey]
	return ok, nil
}

func (c *fakeCOSClient) MoveObject(_ context.Context, srcKey string, dstKey string) error {
	c.moveCalls++
	if c.moveErr != nil {
		return c.moveErr
	}
	delete(c.objects, srcKey)
	c.objects[dstKey] = struct{}{}
	c.moves = append(c.moves, [2]string{srcKey, dstKey})
	return nil
}

// testEnv 把常用的 fake 组合成一套可直接驱动服务层的环境。
type testEnv struct {
	repo           *fakeAttachmentRepo
	images         *fakeEntityImageRepo
	cosCli         *fakeCOSClient
	attachmentSvc  AttachmentService
	associationSvc AssociationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := newTestLogger(t)
	repo := newFakeAttachmentRepo()
	images := newFakeEntityImageRepo()
	cosCli := newFakeCOSClient()
	attachmentSvc := NewAttachmentService(nil, repo, cosCli, logger)
	associationSvc := NewAssociationService(fakeTxManager{}, repo, images, attachmentSvc, logger)
	return &testEnv{
		repo:           repo,
		images:         images,
		cosCli:         cosCli,
		attachmentSvc:  attachmentSvc,
		associationSvc: associationSvc,
	}
}

// seedTemp 植入一条临时附件（并在 fake COS 中放置对应对象）。
func (e *testEnv) seedTemp(id uint64) *entities.Attachment {
	att := &entities.Attachment{
		StoragePath:      fmt.Sprintf("uploads/tmp/image/20250901/obj-%d.jpg", id),
		OriginalFileName: fmt.Sprintf("photo-%d.jpg", id),
		ContentType:      "image/jpeg",
		FileSize:         1024,
		RelationType:     "image",
		IsTemporary:      true,
	}
	att.ID = id
	att.CreatedAt = time.Now()
	att.PublicURL = e.cosCli.BuildPublicURL(att.StoragePath)
	e.repo.put(att)
	e.cosCli.objects[att.StoragePath] = struct{}{}
	return att
}

// seedBound 植入一条已绑定实体的永久附件。
func (e *testEnv) seedBound(id uint64, objectType entities.ObjectType, objectID uint64, primary bool, content bool) *entities.Attachment {
	att := &entities.Attachment{
		StoragePath:    fmt.Sprintf("uploads/images/2025/08/%d.jpg", id),
		ContentType:    "image/jpeg",
		RelationType:   "image",
		IsTemporary:    false,
		IsPrimary:      primary,
		IsContentImage: content,
		ObjectType:     sql.NullString{String: string(objectType), Valid: true},
		ObjectID:       sql.NullInt64{Int64: int64(objectID), Valid: true},
	}
	att.ID = id
	att.CreatedAt = time.Now()
	att.PublicURL = e.cosCli.BuildPublicURL(att.StoragePath)
	e.repo.put(att)
	e.cosCli.objects[att.StoragePath] = struct{}{}
	return att
}
