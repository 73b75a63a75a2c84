package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Xushengqwer/content_service/constant"
	"github.com/Xushengqwer/content_service/models/entities"
)

func TestAssociateFeaturedPromotesAndWritesSnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedTemp(1)

	associated, err := env.associationSvc.Associate(ctx, []uint64{1}, entities.ObjectTypeNews, 10, true, false, "user-1")
	if err != nil {
		t.Fatalf("Associate failed: %v", err)
	}
	if !associated {
		t.Fatal("Associate returned associated=false, want true")
	}

	att := env.repo.get(1)
	if att.IsTemporary {
		t.Error("attachment still temporary after association")
	}
	if !att.IsPrimary {
		t.Error("attachment not marked primary")
	}
	if !att.BoundTo(entities.ObjectTypeNews, 10) {
		t.Errorf("attachment not bound to news/10: type=%v id=%v", att.ObjectType, att.ObjectID)
	}
	if strings.HasPrefix(att.StoragePath, constant.COSObjectKeyPrefixTemp) {
		t.Errorf("storage path still under temp prefix: %s", att.StoragePath)
	}
	if att.ModifiedBy != "user-1" {
		t.Errorf("modified_by = %q, want user-1", att.ModifiedBy)
	}
	if len(env.cosCli.moves) != 1 {
		t.Fatalf("COS moves = %d, want 1", len(env.cosCli.moves))
	}
	if got := env.images.featured[entityKey(entities.ObjectTypeNews, 10)]; got != 1 {
		t.Errorf("featured snapshot = %d, want 1", got)
	}
	if env.images.imageURL[entityKey(entities.ObjectTypeNews, 10)] != att.PublicURL {
		t.Error("featured snapshot URL does not match attachment public URL")
	}
}

func TestAssociateSkipsIneligibleAttachments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// 已绑定到另一个实体的附件不满足关联资格。
	env.seedBound(1, entities.ObjectTypeProduct, 99, false, false)

	associated, err := env.associationSvc.Associate(ctx, []uint64{1, 404}, entities.ObjectTypeNews, 10, false, false, "user-1")
	if err != nil {
		t.Fatalf("Associate failed: %v", err)
	}
	if associated {
		t.Fatal("Associate returned associated=true, want false (all IDs ineligible)")
	}
	if att := env.repo.get(1); att.BoundTo(entities.ObjectTypeNews, 10) {
		t.Error("attachment bound to another entity was rebound")
	}
}

func TestAssociateFeaturedReplacesSupersededPrimary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedBound(1, entities.ObjectTypeNews, 10, true, false)
	env.seedTemp(2)

	associated, err := env.associationSvc.Associate(ctx, []uint64{2}, entities.ObjectTypeNews, 10, true, false, "user-1")
	if err != nil {
		t.Fatalf("Associate failed: %v", err)
	}
	if !associated {
		t.Fatal("Associate returned associated=false, want true")
	}

	if old := env.repo.get(1); !old.DeletedAt.Valid {
		t.Error("superseded primary attachment was not soft-deleted")
	}
	if att := env.repo.get(2); !att.IsPrimary || att.IsTemporary {
		t.Errorf("new primary state wrong: isPrimary=%v isTemporary=%v", att.IsPrimary, att.IsTemporary)
	}
	if got := env.images.featured[entityKey(entities.ObjectTypeNews, 10)]; got != 2 {
		t.Errorf("featured snapshot = %d, want 2", got)
	}
}

func TestAssociateFeaturedBatchOnlyFirstBecomesPrimary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedTemp(1)
	env.seedTemp(2)

	associated, err := env.associationSvc.Associate(ctx, []uint64{1, 2}, entities.ObjectTypeNews, 10, true, false, "user-1")
	if err != nil {
		t.Fatalf("Associate failed: %v", err)
	}
	if !associated {
		t.Fatal("Associate returned associated=false, want true")
	}

	first := env.repo.get(1)
	second := env.repo.get(2)
	if !first.IsPrimary {
		t.Error("first candidate did not become primary")
	}
	if second.IsPrimary {
		t.Error("second candidate also became primary, featured image must be unique")
	}
	if !second.BoundTo(entities.ObjectTypeNews, 10) {
		t.Error("demoted candidate was not associated as gallery image")
	}
	if env.images.setCalls != 1 {
		t.Errorf("featured snapshot write count = %d, want 1", env.images.setCalls)
	}
}

func TestReconcileNoChangeIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedBound(1, entities.ObjectTypeNews, 10, false, false)
	env.seedBound(2, entities.ObjectTypeNews, 10, false, false)
	env.seedBound(3, entities.ObjectTypeNews, 10, true, false)

	featured := uint64(3)
	writesBefore := env.repo.writeCount

	// 期望状态与当前完全一致（图库顺序颠倒也算一致，集合比较）。
	err := env.associationSvc.ReconcileOnUpdate(ctx, entities.ObjectTypeNews, 10, []uint64{2, 1}, &featured, nil, "user-1")
	if err != nil {
		t.Fatalf("ReconcileOnUpdate failed: %v", err)
	}

	if env.repo.writeCount != writesBefore {
		t.Errorf("repo writes = %d, want %d (no-op must not write)", env.repo.writeCount, writesBefore)
	}
	if env.images.setCalls != 0 || env.images.clearCalls != 0 {
		t.Errorf("snapshot writes set=%d clear=%d, want 0/0", env.images.setCalls, env.images.clearCalls)
	}
}

func TestReconcileResetAndRecreateGallery(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedBound(1, entities.ObjectTypeNews, 10, false, false)
	env.seedBound(2, entities.ObjectTypeNews, 10, false, false)
	env.seedTemp(3)

	// 期望图库从 {1,2} 变为 {2,3}：1 被移除，2 保留，3 晋升后加入。
	err := env.associationSvc.ReconcileOnUpdate(ctx, entities.ObjectTypeNews, 10, []uint64{2, 3}, nil, nil, "user-1")
	if err != nil {
		t.Fatalf("ReconcileOnUpdate failed: %v", err)
	}

	if removed := env.repo.get(1); !removed.DeletedAt.Valid {
		t.Error("attachment 1 should have been soft-deleted")
	}
	if kept := env.repo.get(2); kept.DeletedAt.Valid || !kept.BoundTo(entities.ObjectTypeNews, 10) {
		t.Error("attachment 2 should have survived the reset")
	}
	added := env.repo.get(3)
	if added.IsTemporary || !added.BoundTo(entities.ObjectTypeNews, 10) {
		t.Errorf("attachment 3 not promoted and bound: isTemporary=%v", added.IsTemporary)
	}
	if added.IsPrimary || added.IsContentImage {
		t.Error("attachment 3 should be a plain gallery image")
	}
	// 没有期望特色图时快照字段被清空。
	if env.images.clearCalls != 1 {
		t.Errorf("clear snapshot calls = %d, want 1", env.images.clearCalls)
	}

	ids, err := env.associationSvc.GetCurrentGalleryIDs(ctx, entities.ObjectTypeNews, 10)
	if err != nil {
		t.Fatalf("GetCurrentGalleryIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != 2 || ids[1] != 3 {
		t.Errorf("gallery IDs after reconcile = %v, want [2 3]", ids)
	}
}

func TestReconcileContentRoleWinsOverGalleryAndFeatured(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedTemp(5)

	featured := uint64(5)
	bodies := []string{`<p><img src="/x.jpg" data-attachment-id="5"></p>`, ""}

	// 同一个ID同时作为图库、特色图与正文引用出现时，正文角色优先。
	err := env.associationSvc.ReconcileOnUpdate(ctx, entities.ObjectTypeNews, 10, []uint64{5}, &featured, bodies, "user-1")
	if err != nil {
		t.Fatalf("ReconcileOnUpdate failed: %v", err)
	}

	att := env.repo.get(5)
	if !att.IsContentImage {
		t.Error("body-referenced attachment not tagged as content image")
	}
	if att.IsPrimary {
		t.Error("body-referenced attachment must not become featured image")
	}
	if att.IsTemporary || !att.BoundTo(entities.ObjectTypeNews, 10) {
		t.Errorf("attachment not promoted and bound: isTemporary=%v", att.IsTemporary)
	}
	if env.images.setCalls != 0 {
		t.Error("featured snapshot must not be written when effective featured is absent")
	}
	if env.images.clearCalls != 1 {
		t.Errorf("clear snapshot calls = %d, want 1", env.images.clearCalls)
	}
}

func TestReconcileRepeatedCallIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedTemp(1)
	env.seedTemp(2)

	featured := uint64(2)
	bodies := []string{`<img data-attachment-id="7">`} // 不存在的正文引用会被跳过

	if err := env.associationSvc.ReconcileOnUpdate(ctx, entities.ObjectTypeNews, 10, []uint64{1}, &featured, bodies, "user-1"); err != nil {
		t.Fatalf("first ReconcileOnUpdate failed: %v", err)
	}

	writesBefore := env.repo.writeCount
	setBefore := env.images.setCalls
	if err := env.associationSvc.ReconcileOnUpdate(ctx, entities.ObjectTypeNews, 10, []uint64{1}, &featured, bodies, "user-1"); err != nil {
		t.Fatalf("second ReconcileOnUpdate failed: %v", err)
	}

	if env.repo.writeCount != writesBefore {
		t.Errorf("second identical reconcile produced %d writes, want 0", env.repo.writeCount-writesBefore)
	}
	if env.images.setCalls != setBefore {
		t.Error("second identical reconcile rewrote the featured snapshot")
	}
}

func TestGetCurrentFeaturedIDPicksLowestOnDirtyData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// 人为构造不变量被破坏的脏数据：两条未删除的特色图。
	env.seedBound(4, entities.ObjectTypeNews, 10, true, false)
	env.seedBound(2, entities.ObjectTypeNews, 10, true, false)

	id, err := env.associationSvc.GetCurrentFeaturedID(ctx, entities.ObjectTypeNews, 10)
	if err != nil {
		t.Fatalf("GetCurrentFeaturedID failed: %v", err)
	}
	if id == nil || *id != 2 {
		t.Fatalf("featured ID = %v, want 2 (lowest ID wins)", id)
	}
}

func TestGetCurrentFeaturedIDEmpty(t *testing.T) {
	env := newTestEnv(t)

	id, err := env.associationSvc.GetCurrentFeaturedID(context.Background(), entities.ObjectTypeNews, 10)
	if err != nil {
		t.Fatalf("GetCurrentFeaturedID failed: %v", err)
	}
	if id != nil {
		t.Fatalf("featured ID = %v, want nil", *id)
	}
}

func TestSoftDeleteEntityAttachmentsPropagates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedBound(1, entities.ObjectTypeNews, 10, true, false)
	env.seedBound(2, entities.ObjectTypeNews, 10, false, false)
	env.seedBound(3, entities.ObjectTypeProduct, 99, false, false)

	if err := env.associationSvc.SoftDeleteEntityAttachments(ctx, entities.ObjectTypeNews, 10); err != nil {
		t.Fatalf("SoftDeleteEntityAttachments failed: %v", err)
	}

	if !env.repo.get(1).DeletedAt.Valid || !env.repo.get(2).DeletedAt.Valid {
		t.Error("attachments of the deleted entity were not soft-deleted")
	}
	if env.repo.get(3).DeletedAt.Valid {
		t.Error("attachment of an unrelated entity was soft-deleted")
	}
	if env.images.clearCalls != 1 {
		t.Errorf("clear snapshot calls = %d, want 1", env.images.clearCalls)
	}
}

func TestSoftDeleteEntityAttachmentsToleratesMissingEntityRow(t *testing.T) {
	env := newTestEnv(t)
	env.images.notFoundErr = true
	env.seedBound(1, entities.ObjectTypeNews, 10, false, false)

	// 实体行已先被删除时，清空快照返回 NotFound 不应视为失败。
	if err := env.associationSvc.SoftDeleteEntityAttachments(context.Background(), entities.ObjectTypeNews, 10); err != nil {
		t.Fatalf("SoftDeleteEntityAttachments failed: %v", err)
	}
	if !env.repo.get(1).DeletedAt.Valid {
		t.Error("attachment was not soft-deleted")
	}
}

func TestAssociateRejectsUnknownObjectType(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.associationSvc.Associate(context.Background(), []uint64{1}, "bogus", 10, false, false, "user-1"); err == nil {
		t.Fatal("Associate with unknown object type should fail")
	}
	if err := env.associationSvc.ReconcileOnUpdate(context.Background(), "bogus", 10, nil, nil, nil, "user-1"); err == nil {
		t.Fatal("ReconcileOnUpdate with unknown object type should fail")
	}
}
