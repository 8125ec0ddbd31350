package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"league-intel/internal/constants"
	"league-intel/internal/domain"

	"github.com/rs/zerolog"
)

// PlayerCacheRepository is the persisted subset cache of the bulk player
// catalog. It is capped; the oldest-inserted rows are evicted first so the
// table never grows toward catalog size.
type PlayerCacheRepository struct {
	db         *sql.DB
	maxEntries int
	logger     zerolog.Logger
}

func NewPlayerCacheRepository(db *sql.DB, logger zerolog.Logger) *PlayerCacheRepository {
	return &PlayerCacheRepository{db: db, maxEntries: constants.PlayerCacheMaxEntries, logger: logger}
}

// GetByIDs loads whichever of the requested ids are cached. Missing ids are
// simply absent from the result.
func (r *PlayerCacheRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.PlayerRecord, error) {
	out := make(map[string]domain.PlayerRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	for start := 0; start < len(ids); start += constants.DBBatchSize {
		end := start + constants.DBBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}

		rows, err := r.db.QueryContext(ctx, fmt.Sprintf(
			`SELECT player_id, full_name, first_name, last_name, position, age, years_exp, team, status
			 FROM player_cache WHERE player_id IN (%s)`, placeholders), args...)
		if err != nil {
			return nil, fmt.Errorf("query player cache: %w", err)
		}

		for rows.Next() {
			var rec domain.PlayerRecord
			var fullName, firstName, lastName, position, team, status sql.NullString
			var age, yearsExp sql.NullInt64
			if err := rows.Scan(&rec.PlayerID, &fullName, &firstName, &lastName, &position, &age, &yearsExp, &team, &status); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan player cache row: %w", err)
			}
			rec.FullName = fullName.String
			rec.FirstName = firstName.String
			rec.LastName = lastName.String
			rec.Position = position.String
			rec.Team = team.String
			rec.Status = status.String
			if age.Valid {
				v := int(age.Int64)
				rec.Age = &v
			}
			if yearsExp.Valid {
				v := int(yearsExp.Int64)
				rec.YearsExp = &v
			}
			out[rec.PlayerID] = rec
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	return out, nil
}

// PutBatch upserts records and evicts beyond the cap in one transaction.
// Re-inserting an existing id keeps its original insertion order.
func (r *PlayerCacheRepository) PutBatch(ctx context.Context, records []domain.PlayerRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var nextSeq int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(inserted_seq), 0) + 1 FROM player_cache").Scan(&nextSeq); err != nil {
		return fmt.Errorf("read insertion sequence: %w", err)
	}

	for _, rec := range records {
		if rec.PlayerID == "" {
			continue
		}
		var age, yearsExp any
		if rec.Age != nil {
			age = *rec.Age
		}
		if rec.YearsExp != nil {
			yearsExp = *rec.YearsExp
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO player_cache (player_id, full_name, first_name, last_name, position, age, years_exp, team, status, inserted_seq)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(player_id) DO UPDATE SET
			   full_name = excluded.full_name,
			   first_name = excluded.first_name,
			   last_name = excluded.last_name,
			   position = excluded.position,
			   age = excluded.age,
			   years_exp = excluded.years_exp,
			   team = excluded.team,
			   status = excluded.status`,
			rec.PlayerID, rec.FullName, rec.FirstName, rec.LastName, rec.Position, age, yearsExp, rec.Team, rec.Status, nextSeq)
		if err != nil {
			return fmt.Errorf("failed to upsert player %s: %w", rec.PlayerID, err)
		}
		nextSeq++
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM player_cache WHERE player_id IN (
		   SELECT player_id FROM player_cache ORDER BY inserted_seq ASC
		   LIMIT MAX((SELECT COUNT(*) FROM player_cache) - ?, 0)
		 )`, r.maxEntries)
	if err != nil {
		return fmt.Errorf("evict player cache: %w", err)
	}
	if evicted, err := res.RowsAffected(); err == nil && evicted > 0 {
		r.logger.Debug().Int64("evicted", evicted).Msg("player cache evicted oldest entries")
	}

	return tx.Commit()
}

// Count returns the number of cached players.
func (r *PlayerCacheRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM player_cache").Scan(&n)
	return n, err
}
