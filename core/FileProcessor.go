package core

// FileProcessor audits the files it supports.
type FileProcessor interface {
	Supports(filePath string) bool

	Process(path string, repoName string, content string) ([]FileAudit, error)
}
