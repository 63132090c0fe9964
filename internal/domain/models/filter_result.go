package models

// FilterResult summarizes one CSV filter run.
//
// Fields:
//   - Input / Output: source path and the path the filtered rows ended up in.
//   - RowsRead: data rows read (header excluded).
//   - RowsWritten: rows kept and written.
//   - DroppedMagic: rows dropped because magic was numerically zero.
//   - DroppedCancelled: rows dropped only because of a cancelled comment.
type FilterResult struct {
	Input            string
	Output           string
	RowsRead         int
	RowsWritten      int
	DroppedMagic     int
	DroppedCancelled int
}
