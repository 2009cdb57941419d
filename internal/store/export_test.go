package store

import "context"

// ExecForTest runs a raw statement so tests can corrupt rows deliberately.
func (s *Store) ExecForTest(ctx context.Context, query string) error {
	_, err := s.db.ExecContext(ctx, query)
	return err
}
