package consumer

import (
	"context"
	"errors"
	"testing"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"

	"github.com/Xushengqwer/content_service/models/entities"
)

// fakeAssociationService 只记录删除传播调用，其余方法不应被处理器触达。
type fakeAssociationService struct {
	deleteCalls []struct {
		objectType entities.ObjectType
		objectID   uint64
	}
	deleteErr error
}

func (s *fakeAssociationService) Associate(_ context.Context, _ []uint64, _ entities.ObjectType, _ uint64, _ bool, _ bool, _ string) (bool, error) {
	panic("unexpected call")
}

func (s *fakeAssociationService) ReconcileOnUpdate(_ context.Context, _ entities.ObjectType, _ uint64, _ []uint64, _ *uint64, _ []string, _ string) error {
	panic("unexpected call")
}

func (s *fakeAssociationService) GetCurrentGalleryIDs(_ context.Context, _ entities.ObjectType, _ uint64) ([]uint64, error) {
	panic("unexpected call")
}

func (s *fakeAssociationService) GetCurrentFeaturedID(_ context.Context, _ entities.ObjectType, _ uint64) (*uint64, error) {
	panic("unexpected call")
}

func (s *fakeAssociationService) SoftDeleteEntityAttachments(_ context.Context, objectType entities.ObjectType, objectID uint64) error {
	s.deleteCalls = append(s.deleteCalls, struct {
		objectType entities.ObjectType
		objectID   uint64
	}{objectType, objectID})
	return s.deleteErr
}

func newHandlerUnderTest(t *testing.T) (*EntityDeletedHandler, *fakeAssociationService) {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	if err != nil {
		t.Fatalf("init test logger failed: %v", err)
	}
	svc := &fakeAssociationService{}
	return NewEntityDeletedHandler(logger, svc), svc
}

func TestEntityDeletedHandlerPropagatesDeletion(t *testing.T) {
	handler, svc := newHandlerUnderTest(t)

	msg := kafka.Message{
		Topic: "cms_entity_deleted",
		Value: []byte(`{"event_id":"e1","object_type":"product","object_id":42}`),
	}
	if err := handler.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(svc.deleteCalls) != 1 {
		t.Fatalf("delete propagation calls = %d, want 1", len(svc.deleteCalls))
	}
	call := svc.deleteCalls[0]
	if call.objectType != entities.ObjectTypeProduct || call.objectID != 42 {
		t.Errorf("propagated to %s/%d, want product/42", call.objectType, call.objectID)
	}
}

func TestEntityDeletedHandlerSkipsMalformedMessage(t *testing.T) {
	handler, svc := newHandlerUnderTest(t)

	msg := kafka.Message{Value: []byte(`{not-json`)}
	// 无法解析的消息不重试：返回 nil 让消费循环继续。
	if err := handler.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle should swallow malformed messages, got: %v", err)
	}
	if len(svc.deleteCalls) != 0 {
		t.Error("malformed message must not trigger propagation")
	}
}

func TestEntityDeletedHandlerSkipsUnknownObjectType(t *testing.T) {
	handler, svc := newHandlerUnderTest(t)

	msg := kafka.Message{Value: []byte(`{"event_id":"e2","object_type":"banner","object_id":7}`)}
	if err := handler.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle should swallow unknown object types, got: %v", err)
	}
	if len(svc.deleteCalls) != 0 {
		t.Error("unknown object type must not trigger propagation")
	}
}

func TestEntityDeletedHandlerReturnsErrorForRetry(t *testing.T) {
	handler, svc := newHandlerUnderTest(t)
	svc.deleteErr = errors.New("db down")

	msg := kafka.Message{Value: []byte(`{"event_id":"e3","object_type":"news","object_id":10}`)}
	// 传播失败的消息要重试：错误必须上抛给消费循环。
	if err := handler.Handle(context.Background(), msg); err == nil {
		t.Fatal("Handle must return the propagation error for redelivery")
	}
}
