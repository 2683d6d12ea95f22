package repo

import (
	"context"

	"pawprint/internal/domain"
	"pawprint/internal/infra"
	"pawprint/internal/sqlinline"
)

// ArtworkRepositoryPG implements domain.ArtworkRepository backed by PostgreSQL.
type ArtworkRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewArtworkRepository creates a new ArtworkRepositoryPG.
func NewArtworkRepository(sql infra.SQLExecutor) *ArtworkRepositoryPG {
	return &ArtworkRepositoryPG{sql: sql}
}

// Create persists a generated artwork.
func (r *ArtworkRepositoryPG) Create(ctx context.Context, artwork *domain.Artwork) error {
	var id string
	row := r.sql.QueryRow(ctx, sqlinline.QCreateArtwork,
		artwork.ID,
		artwork.StyleID,
		artwork.PetName,
		artwork.PetType,
		artwork.StorageKey,
		artwork.URL,
	)
	return row.Scan(&id)
}

// GetByID fetches an artwork by its public identifier.
func (r *ArtworkRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Artwork, error) {
	var a domain.Artwork
	row := r.sql.QueryRow(ctx, sqlinline.QGetArtwork, id)
	if err := row.Scan(&a.ID, &a.StyleID, &a.PetName, &a.PetType, &a.StorageKey, &a.URL, &a.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ domain.ArtworkRepository = (*ArtworkRepositoryPG)(nil)
