package media

// SkippedFile is an upload entry rejected before any write.
type SkippedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// FailedFile is an upload entry that started processing but did not complete.
type FailedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// UploadReport is the aggregate outcome of one multi-file upload. Every file
// of the batch appears in exactly one of the three lists.
type UploadReport struct {
	Stored  []IngestResult `json:"stored"`
	Skipped []SkippedFile  `json:"skipped"`
	Failed  []FailedFile   `json:"failed"`
}
