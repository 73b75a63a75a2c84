package mysql

import (
	"testing"

	"github.com/Xushengqwer/content_service/models/entities"
)

func TestTableForObjectType(t *testing.T) {
	testCases := []struct {
		objectType entities.ObjectType
		want       string
	}{
		{entities.ObjectTypeNews, "news"},
		{entities.ObjectTypeNotification, "notifications"},
		{entities.ObjectTypeProduct, "products"},
		{entities.ObjectTypeService, "services"},
	}
	for _, tc := range testCases {
		table, err := tableForObjectType(tc.objectType)
		if err != nil {
			t.Fatalf("tableForObjectType(%s) failed: %v", tc.objectType, err)
		}
		if table != tc.want {
			t.Errorf("tableForObjectType(%s) = %q, want %q", tc.objectType, table, tc.want)
		}
	}
}

func TestTableForObjectTypeUnknown(t *testing.T) {
	if _, err := tableForObjectType("banner"); err == nil {
		t.Fatal("unknown object type must yield an error")
	}
}
