package chunk

// Reduce divides the specified total number (items) into sequential chunks
// of at most size items and executes fn for each range (start, end) in order.
// size <= 0 disables chunking and evaluates the whole range at once.
//
// The reduction is strictly sequential so that accumulated partial sums are
// numerically deterministic; chunking changes the memory footprint of an
// evaluation, never its result.
func Reduce(items, size int, fn func(start, end int) error) error {
	if items == 0 {
		return nil
	}
	if size <= 0 || size >= items {
		return fn(0, items)
	}

	for start := 0; start < items; start += size {
		end := start + size
		if end > items {
			end = items
		}
		if err := fn(start, end); err != nil {
			return err
		}
	}
	return nil
}

// ReduceWithThreshold only chunks when the number of items exceeds the
// threshold. Below threshold, the whole range is evaluated at once.
func ReduceWithThreshold(items, size, threshold int, fn func(start, end int) error) error {
	if items <= threshold {
		return fn(0, items)
	}
	return Reduce(items, size, fn)
}
