package service

import (
	"reflect"
	"testing"
)

func TestExtractAttachmentIDs(t *testing.T) {
	testCases := []struct {
		name   string
		bodies []string
		want   []uint64
	}{
		{
			name:   "空输入",
			bodies: nil,
			want:   []uint64{},
		},
		{
			name:   "空字符串正文",
			bodies: []string{"", ""},
			want:   []uint64{},
		},
		{
			name:   "单正文单引用",
			bodies: []string{`<p>hello <img src="/a.jpg" data-attachment-id="42"></p>`},
			want:   []uint64{42},
		},
		{
			name: "跨正文去重且保持首次出现顺序",
			bodies: []string{
				`<img data-attachment-id="7"><img data-attachment-id="3">`,
				`<img data-attachment-id="3"><img data-attachment-id="9">`,
			},
			want: []uint64{7, 3, 9},
		},
		{
			name: "引号变体",
			bodies: []string{
				`<img data-attachment-id='11'> <img data-attachment-id=12> <img data-attachment-id = "13">`,
			},
			want: []uint64{11, 12, 13},
		},
		{
			name:   "零值与非数字被忽略",
			bodies: []string{`<img data-attachment-id="0"> <img data-attachment-id="abc"> <img data-attachment-id="5">`},
			want:   []uint64{5},
		},
		{
			name:   "无引用的普通正文",
			bodies: []string{`<p>plain text with an <img src="x.png"> but no marker</p>`},
			want:   []uint64{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractAttachmentIDs(tc.bodies)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractAttachmentIDs(%v) = %v, want %v", tc.bodies, got, tc.want)
			}
		})
	}
}
