package core

// SqlQuery is a named summary query run against the audit database.
type SqlQuery struct {
	Name  string `yaml:"name" toml:"name"`
	Query string `yaml:"query" toml:"query"`
}

// SqlQueries holds a collection of SqlQuery instances.
type SqlQueries struct {
	Queries []SqlQuery `yaml:"queries" toml:"queries"`
}

func (q SqlQueries) IsEmpty() bool {
	return len(q.Queries) == 0
}
