package infra_postgres_results

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/VICHiNG16/MusicDuel/internal/model"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type resultDTO struct {
	ID         uuid.UUID `db:"id"`
	RoomCode   string    `db:"room_code"`
	Artist     string    `db:"artist"`
	HostScore  int       `db:"host_score"`
	GuestScore int       `db:"guest_score"`
	Solo       bool      `db:"solo"`
	FinishedAt int64     `db:"finished_at"`
}

func (d *Driver) Save(ctx context.Context, result model.MatchResult) error {
	id, err := uuid.Parse(result.ID)
	if err != nil {
		return err
	}

	dto := resultDTO{
		ID:         id,
		RoomCode:   result.RoomCode,
		Artist:     result.Artist,
		HostScore:  result.HostScore,
		GuestScore: result.GuestScore,
		Solo:       result.Solo,
		FinishedAt: result.FinishedAt,
	}

	query := `
		INSERT INTO match_results (id, room_code, artist, host_score, guest_score, solo, finished_at)
		VALUES (:id, :room_code, :artist, :host_score, :guest_score, :solo, :finished_at)
	`

	_, err = d.db.NamedExecContext(ctx, query, dto)
	return err
}

func (d *Driver) Recent(ctx context.Context, limit int) ([]model.MatchResult, error) {
	var dtos []resultDTO

	query := `
		SELECT id, room_code, artist, host_score, guest_score, solo, finished_at
		FROM match_results
		ORDER BY finished_at DESC
		LIMIT $1
	`

	if err := d.db.SelectContext(ctx, &dtos, query, limit); err != nil {
		return nil, err
	}

	results := make([]model.MatchResult, 0, len(dtos))
	for _, dto := range dtos {
		results = append(results, model.MatchResult{
			ID:         dto.ID.String(),
			RoomCode:   dto.RoomCode,
			Artist:     dto.Artist,
			HostScore:  dto.HostScore,
			GuestScore: dto.GuestScore,
			Solo:       dto.Solo,
			FinishedAt: dto.FinishedAt,
		})
	}
	return results, nil
}
