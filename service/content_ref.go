package service

import (
	"regexp"
	"strconv"
)

// attachmentRefPattern 匹配富文本中内嵌图片携带的附件ID标记，
// 例如 <img src="..." data-attachment-id="42">。
// 输入在上游已做过净化，这里只做尽力而为的标记扫描，不做完整的 HTML 解析；
// 无法解析的片段直接忽略，绝不因残缺标记报错。
var attachmentRefPattern = regexp.MustCompile(`data-attachment-id\s*=\s*["']?(\d+)["']?`)

// ExtractAttachmentIDs 从若干富文本 body 中提取被内嵌引用的附件ID集合。
// - 跨 body 去重：双语实体的 Vi/En 正文引用同一张图时只返回一次
//   （关联调用以 ID 为键，同一事务内不允许重复处理同一 ID）。
// - 返回值保持首次出现的顺序。
func ExtractAttachmentIDs(bodies []string) []uint64 {
	seen := make(map[uint64]struct{})
	ids := make([]uint64, 0)

	for _, body := range bodies {
		if body == "" {
			continue
		}
		for _, match := range attachmentRefPattern.FindAllStringSubmatch(body, -1) {
			id, err := strconv.ParseUint(match[1], 10, 64)
			if err != nil || id == 0 {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
