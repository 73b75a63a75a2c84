package myErrors

import "errors"

// ErrInvariantViolation 表示同一实体下发现了多于一条未删除的特色图记录。
// 这是早前某处缺陷留下的脏数据，协调器自身不应产生该状态；
// 读路径检测到时会确定性地选取最小ID并大声记录，而不是崩溃。
var ErrInvariantViolation = errors.New("attachment: more than one primary attachment for entity")

// ErrAttachmentNotEligible 表示附件不满足关联条件
// （不存在、已绑定到其他实体、或在批量调用之外单独操作一个已删除的附件）。
var ErrAttachmentNotEligible = errors.New("attachment: not eligible for association")

// ErrStorageFailure 表示 COS 对象操作在有限次重试后仍然失败。
// 晋升过程中出现该错误会使整个关联事务回滚，保证元数据与存储不产生不一致。
var ErrStorageFailure = errors.New("attachment: blob storage operation failed")
