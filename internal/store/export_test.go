package store

import "database/sql"

func (s *QuizStore) DB() *sql.DB {
	return s.db
}
