package util

// Batch 将切片按固定大小拆分，最后一批可能不足 batchSize。
// batchSize 不合法时整体作为一批返回。
func Batch[T any](items []T, batchSize int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = len(items)
	}
	var result [][]T
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		chunk := make([]T, end-start)
		copy(chunk, items[start:end])
		result = append(result, chunk)
	}
	return result
}

// CeilDiv 计算 total/size 向上取整，用于推算分块数量。
func CeilDiv(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
