package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xushengqwer/content_service/models/dto"
	"github.com/Xushengqwer/content_service/service"
)

// Seed 函数接收 NewsService 实例、logger 和要生成的新闻数量。
// 附件不在这里生成：附件上传依赖真实的 COS 写入，seeder 只铺新闻本体数据，
// 附件流程通过 HTTP 接口或集成测试验证。
func Seed(ctx context.Context, newsSvc service.NewsService, logger *core.ZapLogger, numNews int) {
	logger.Info("开始填充测试数据 (通过服务层)...", zap.Int("数量", numNews))

	var wg sync.WaitGroup
	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for i := 0; i < numNews; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			actorID := uuid.New().String()
			title := gofakeit.Sentence(gofakeit.Number(5, 12))
			slug := fmt.Sprintf("%s-%s",
				strings.ToLower(strings.ReplaceAll(strings.TrimSuffix(title, "."), " ", "-")),
				uuid.New().String()[:8])

			createReq := &dto.CreateNewsRequest{
				TitleVi:   title,
				TitleEn:   gofakeit.Sentence(gofakeit.Number(5, 12)),
				Slug:      slug,
				ContentVi: gofakeit.Paragraph(3, 5, 20, "\n\n"),
				ContentEn: gofakeit.Paragraph(3, 5, 20, "\n\n"),
				ActorID:   actorID,
			}

			resp, err := newsSvc.CreateNews(ctx, createReq)
			if err != nil {
				logger.Error(fmt.Sprintf("创建新闻 %d/%d 失败", itemIndex+1, numNews),
					zap.Error(err),
					zap.String("title", createReq.TitleVi),
					zap.String("slug", createReq.Slug))
			} else {
				logger.Info(fmt.Sprintf("成功创建新闻 %d/%d", itemIndex+1, numNews),
					zap.Uint64("news_id", resp.ID),
					zap.String("title", resp.TitleVi))
			}
		}(i)
	}

	wg.Wait()
	logger.Info("测试数据填充完毕 (通过服务层)。")
}
