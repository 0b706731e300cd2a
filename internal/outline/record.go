package outline

// FileRecord holds the descriptor lines extracted from one input file.
type FileRecord struct {
	FilePath string   `json:"filePath" yaml:"filePath"`
	Details  []string `json:"details" yaml:"details"`
}

// NewFileRecord renders descriptors into a record for filePath.
func NewFileRecord(filePath string, descriptors []Descriptor) FileRecord {
	return FileRecord{
		FilePath: filePath,
		Details:  Lines(descriptors),
	}
}
