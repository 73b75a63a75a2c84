package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	"gorm.io/gorm"

	"github.com/Xushengqwer/content_service/models/entities"
)

// fakeNewsRepo 是 NewsRepository 的内存实现。
type fakeNewsRepo struct {
	byID map[uint64]*entities.News
}

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{byID: map[uint64]*entities.News{}}
}

func (r *fakeNewsRepo) CreateNews(_ context.Context, _ *gorm.DB, news *entities.News) error {
	if news.ID == 0 {
		news.ID = uint64(len(r.byID) + 1)
	}
	r.byID[news.ID] = news
	return nil
}

func (r *fakeNewsRepo) UpdateNews(_ context.Context, _ *gorm.DB, newsID uint64, fields map[string]interface{}) error {
	news, ok := r.byID[newsID]
	if !ok || news.DeletedAt.Valid {
		return commonerrors.ErrRepoNotFound
	}
	for key, value := range fields {
		switch key {
		case "title_vi":
			news.TitleVi = value.(string)
		case "title_en":
			news.TitleEn = value.(string)
		case "content_vi":
			news.ContentVi = value.(string)
		case "content_en":
			news.ContentEn = value.(string)
		case "modified_by":
			news.ModifiedBy = value.(string)
		}
	}
	return nil
}

func (r *fakeNewsRepo) GetNewsByID(_ context.Context, newsID uint64) (*entities.News, error) {
	news, ok := r.byID[newsID]
	if !ok || news.DeletedAt.Valid {
		return nil, commonerrors.ErrRepoNotFound
	}
	clone := *news
	return &clone, nil
}

func (r *fakeNewsRepo) DeleteNews(_ context.Context, _ *gorm.DB, newsID uint64) error {
	news, ok := r.byID[newsID]
	if !ok || news.DeletedAt.Valid {
		return commonerrors.ErrRepoNotFound
	}
	news.DeletedAt = gorm.DeletedAt{Valid: true}
	return nil
}

func TestGetNewsByIDAssemblesDetail(t *testing.T) {
	env := newTestEnv(t)
	newsRepo := newFakeNewsRepo()
	newsSvc := NewNewsService(nil, newsRepo, env.repo, env.associationSvc, nil, newTestLogger(t))

	news := &entities.News{
		TitleVi:         "Tin tức",
		TitleEn:         "News",
		Slug:            "tin-tuc",
		ContentVi:       `<p><img data-attachment-id="3"></p>`,
		ImageURL:        "https://cdn.example.com/uploads/images/2025/08/1.jpg",
		FeaturedImageID: sql.NullInt64{Int64: 1, Valid: true},
	}
	news.ID = 10
	newsRepo.byID[10] = news

	env.seedBound(1, entities.ObjectTypeNews, 10, true, false)  // 特色图
	env.seedBound(2, entities.ObjectTypeNews, 10, false, false) // 图库图
	env.seedBound(3, entities.ObjectTypeNews, 10, false, true)  // 正文内嵌图

	detail, err := newsSvc.GetNewsByID(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetNewsByID failed: %v", err)
	}
	if detail.ID != 10 || detail.Slug != "tin-tuc" {
		t.Errorf("detail identity wrong: id=%d slug=%q", detail.ID, detail.Slug)
	}
	if detail.FeaturedImageID == nil || *detail.FeaturedImageID != 1 {
		t.Errorf("featured image ID = %v, want 1", detail.FeaturedImageID)
	}
	if detail.ImageURL != news.ImageURL {
		t.Errorf("image URL = %q, want snapshot value", detail.ImageURL)
	}
	// 特色图通过快照字段表达，不重复进入图库。
	if len(detail.Gallery) != 1 || detail.Gallery[0].ID != 2 {
		t.Errorf("gallery = %v, want exactly attachment 2", detail.Gallery)
	}
	if len(detail.ContentImages) != 1 || detail.ContentImages[0].ID != 3 {
		t.Errorf("content images = %v, want exactly attachment 3", detail.ContentImages)
	}
}

func TestGetNewsByIDNotFound(t *testing.T) {
	env := newTestEnv(t)
	newsSvc := NewNewsService(nil, newFakeNewsRepo(), env.repo, env.associationSvc, nil, newTestLogger(t))

	_, err := newsSvc.GetNewsByID(context.Background(), 404)
	if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		t.Fatalf("error = %v, want ErrRepoNotFound", err)
	}
}
