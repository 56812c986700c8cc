package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("记录已被其他操作修改，请刷新排班表后重试")

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("缓存未命中")
