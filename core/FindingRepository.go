package core

type FindingSet struct {
	Audits []FileAudit `json:"auditSet"`
}

type FindingRepository interface {
	Store(audits []FileAudit) error
	Clear() error
	NewIterator() FindingIterator
	Close() error
}

type FindingIterator interface {
	HasNext() bool
	Next() (FindingSet, error)
	Reset() error
}

// Reporter renders everything stored in a FindingRepository.
type Reporter interface {
	Report(repository FindingRepository) error
}
