package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/markhub/markhub/internal/document"
	"github.com/markhub/markhub/internal/document/repository"
	"github.com/markhub/markhub/internal/profile"
	"github.com/markhub/markhub/internal/rates"
	"github.com/markhub/markhub/internal/stamps"
	"github.com/markhub/markhub/pkg/apperr"
	"github.com/markhub/markhub/pkg/logger"
)

// ProfileDirectory is the read-only slice of the profile repository the
// document service needs for author joins.
type ProfileDirectory interface {
	Get(ctx context.Context, uid string) (*profile.Profile, error)
	All(ctx context.Context) (map[string]*profile.Profile, error)
}

// RatingReader merges stored ratings into shared document DTOs.
type RatingReader interface {
	Get(ctx context.Context, docID string) (*rates.Rating, error)
}

// ListingCache caches the permanent-documents listing. May be nil.
type ListingCache interface {
	Get(ctx context.Context, v any) (bool, error)
	Set(ctx context.Context, v any) error
	Invalidate(ctx context.Context) error
}

// DocumentDTO is a map entry together with its id.
type DocumentDTO struct {
	ID string `json:"id"`
	document.Document
}

// SharedDocumentDTO adds the author profile and rating carried by publicly
// reachable documents.
type SharedDocumentDTO struct {
	DocumentDTO
	Author *profile.Author `json:"author"`
	Rating *rates.Rating   `json:"rating,omitempty"`
}

// StampDTO carries the post-update mdate back to the caller.
type StampDTO struct {
	MDate string `json:"mdate"`
}

type CreatePayload struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type UpdateCodePayload struct {
	ID    string `json:"id"`
	MDate string `json:"mdate"`
	Code  string `json:"code"`
}

type UpdateNamePayload struct {
	ID    string `json:"id"`
	MDate string `json:"mdate"`
	Name  string `json:"name"`
}

// UpdatePayload is the general multi-field update. Description and Tags are
// only consumed when the target visibility is permanent.
type UpdatePayload struct {
	ID          string              `json:"id"`
	MDate       string              `json:"mdate"`
	Visibility  document.Visibility `json:"visibility"`
	Name        string              `json:"name"`
	Code        string              `json:"code"`
	Description string              `json:"description"`
	Tags        []string            `json:"tags"`
}

// Service implements the document operations: CRUD plus the
// optimistic-concurrency update core.
type Service struct {
	repo     repository.Repository
	profiles ProfileDirectory
	ratings  RatingReader
	cache    ListingCache
}

func New(repo repository.Repository, profiles ProfileDirectory, ratings RatingReader, cache ListingCache) *Service {
	return &Service{repo: repo, profiles: profiles, ratings: ratings, cache: cache}
}

// loadEntry fetches the caller's map and the addressed entry, classifying
// the two missing cases.
func (s *Service) loadEntry(ctx context.Context, uid, id string) (document.Map, document.Document, error) {
	docs, err := s.repo.GetMap(ctx, uid)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, document.Document{}, apperr.NotFound("documents not found")
		}
		return nil, document.Document{}, apperr.Internal("failed to read documents")
	}
	doc, ok := docs[id]
	if !ok {
		return nil, document.Document{}, apperr.NotFound("document not found")
	}
	return docs, doc, nil
}

// writeStamped persists the entry conditionally on the client-observed mdate.
// A concurrent writer that got in between the read and this write makes the
// condition miss, which is reported as out-of-date rather than merged.
func (s *Service) writeStamped(ctx context.Context, uid, id string, doc document.Document, expected string) error {
	err := s.repo.SetEntryIfStamp(ctx, uid, id, doc, expected)
	if err == repository.ErrStale {
		return apperr.OutOfDate("the document has been changed elsewhere")
	}
	if err != nil {
		return apperr.Internal("failed to write document")
	}
	s.invalidateListing(ctx)
	return nil
}

func (s *Service) invalidateListing(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warnf("failed to invalidate permanent listing cache: %v", err)
	}
}

// checkScopedName enforces per-owner name uniqueness for private and public
// documents; the addressed id itself is excluded so renaming a document to
// its current name never collides.
func checkScopedName(docs document.Map, id, name string) error {
	for otherID, other := range docs {
		if otherID != id && other.Name == name {
			return apperr.Exists("you already have a document with this name")
		}
	}
	return nil
}

// checkGlobalName enforces global uniqueness against every user's permanent
// documents.
func (s *Service) checkGlobalName(ctx context.Context, id, name string) error {
	taken, err := s.repo.PermanentNameTaken(ctx, name, id)
	if err != nil {
		return apperr.Internal("failed to check name uniqueness")
	}
	if taken {
		return apperr.Exists("a document with this name already exists, please change the name")
	}
	return nil
}

// Create adds a private document with cdate == mdate.
func (s *Service) Create(ctx context.Context, uid string, p CreatePayload) (DocumentDTO, error) {
	name, err := document.NormalizeName(p.Name)
	if err != nil {
		return DocumentDTO{}, err
	}
	if err := document.ValidateCode(p.Code); err != nil {
		return DocumentDTO{}, err
	}

	docs, err := s.repo.GetMap(ctx, uid)
	if err != nil && err != repository.ErrNotFound {
		return DocumentDTO{}, apperr.Internal("failed to read documents")
	}
	if err := checkScopedName(docs, "", name); err != nil {
		return DocumentDTO{}, err
	}

	now := stamps.Now()
	doc := document.Document{
		Name:       name,
		Code:       p.Code,
		CDate:      now,
		MDate:      now,
		Visibility: document.VisibilityPrivate,
	}
	id := uuid.NewString()
	if err := s.repo.SetEntry(ctx, uid, id, doc); err != nil {
		return DocumentDTO{}, apperr.Internal("failed to write document")
	}
	return DocumentDTO{ID: id, Document: doc}, nil
}

// UpdateCode applies a content-only edit. Code carries no uniqueness rules.
func (s *Service) UpdateCode(ctx context.Context, uid string, p UpdateCodePayload) (StampDTO, error) {
	if err := document.ValidateStamp(p.MDate); err != nil {
		return StampDTO{}, err
	}
	if err := document.ValidateCode(p.Code); err != nil {
		return StampDTO{}, err
	}

	_, doc, err := s.loadEntry(ctx, uid, p.ID)
	if err != nil {
		return StampDTO{}, err
	}
	if doc.MDate != p.MDate {
		return StampDTO{}, apperr.OutOfDate("the document has been changed elsewhere")
	}

	doc.Code = p.Code
	doc.MDate = stamps.Next(doc.MDate)
	if err := s.writeStamped(ctx, uid, p.ID, doc, p.MDate); err != nil {
		return StampDTO{}, err
	}
	return StampDTO{MDate: doc.MDate}, nil
}

// UpdateName applies a rename. Scoped uniqueness guards private and public
// documents; the permanent namespace is guarded for every visibility. A
// permanent document re-derives its path from the new name.
func (s *Service) UpdateName(ctx context.Context, uid string, p UpdateNamePayload) (StampDTO, error) {
	if err := document.ValidateStamp(p.MDate); err != nil {
		return StampDTO{}, err
	}
	name, err := document.NormalizeName(p.Name)
	if err != nil {
		return StampDTO{}, err
	}

	docs, doc, err := s.loadEntry(ctx, uid, p.ID)
	if err != nil {
		return StampDTO{}, err
	}
	if doc.MDate != p.MDate {
		return StampDTO{}, apperr.OutOfDate("the document has been changed elsewhere")
	}

	if doc.Visibility == document.VisibilityPrivate || doc.Visibility == document.VisibilityPublic {
		if err := checkScopedName(docs, p.ID, name); err != nil {
			return StampDTO{}, err
		}
	}
	if err := s.checkGlobalName(ctx, p.ID, name); err != nil {
		return StampDTO{}, err
	}

	doc.Name = name
	if doc.Visibility == document.VisibilityPermanent {
		path, err := document.PathFromName(name)
		if err != nil {
			return StampDTO{}, err
		}
		doc.Path = path
	}
	doc.MDate = stamps.Next(doc.MDate)
	if err := s.writeStamped(ctx, uid, p.ID, doc, p.MDate); err != nil {
		return StampDTO{}, err
	}
	return StampDTO{MDate: doc.MDate}, nil
}

// Update is the general multi-field edit, including visibility changes. The
// payload shape depends on the target visibility: permanent additionally
// carries description and tags and derives its path.
func (s *Service) Update(ctx context.Context, uid string, p UpdatePayload) (DocumentDTO, error) {
	if !p.Visibility.Valid() {
		return DocumentDTO{}, apperr.InvalidArgument("wrong visibility value")
	}
	if err := document.ValidateStamp(p.MDate); err != nil {
		return DocumentDTO{}, err
	}
	name, err := document.NormalizeName(p.Name)
	if err != nil {
		return DocumentDTO{}, err
	}
	if err := document.ValidateCode(p.Code); err != nil {
		return DocumentDTO{}, err
	}

	docs, doc, err := s.loadEntry(ctx, uid, p.ID)
	if err != nil {
		return DocumentDTO{}, err
	}
	if doc.MDate != p.MDate {
		return DocumentDTO{}, apperr.OutOfDate("the document has been changed elsewhere")
	}

	next := document.Document{
		Name:       name,
		Code:       p.Code,
		CDate:      doc.CDate,
		MDate:      stamps.Next(doc.MDate),
		Visibility: p.Visibility,
	}
	switch p.Visibility {
	case document.VisibilityPrivate, document.VisibilityPublic:
		if err := checkScopedName(docs, p.ID, name); err != nil {
			return DocumentDTO{}, err
		}
	case document.VisibilityPermanent:
		path, err := document.PathFromName(name)
		if err != nil {
			return DocumentDTO{}, err
		}
		description, err := document.ValidateDescription(p.Description)
		if err != nil {
			return DocumentDTO{}, err
		}
		tags, err := document.ValidateTags(p.Tags)
		if err != nil {
			return DocumentDTO{}, err
		}
		next.Path = path
		next.Description = description
		next.Tags = tags
	}
	if err := s.checkGlobalName(ctx, p.ID, name); err != nil {
		return DocumentDTO{}, err
	}

	if err := s.writeStamped(ctx, uid, p.ID, next, p.MDate); err != nil {
		return DocumentDTO{}, err
	}
	return DocumentDTO{ID: p.ID, Document: next}, nil
}

// Delete removes the entry from the caller's map.
func (s *Service) Delete(ctx context.Context, uid, id string) error {
	err := s.repo.RemoveEntry(ctx, uid, id)
	if err == repository.ErrNotFound {
		return apperr.NotFound("document not found")
	}
	if err != nil {
		return apperr.Internal("failed to delete document")
	}
	s.invalidateListing(ctx)
	return nil
}

// YourDocuments lists the caller's documents, newest first. A caller without
// a record simply has no documents yet.
func (s *Service) YourDocuments(ctx context.Context, uid string) ([]DocumentDTO, error) {
	docs, err := s.repo.GetMap(ctx, uid)
	if err != nil {
		if err == repository.ErrNotFound {
			return []DocumentDTO{}, nil
		}
		return nil, apperr.Internal("failed to read documents")
	}
	out := make([]DocumentDTO, 0, len(docs))
	for id, doc := range docs {
		out = append(out, DocumentDTO{ID: id, Document: doc})
	}
	sortByCDateDesc(out)
	return out, nil
}

// Permanent lists every permanent document joined with its author profile,
// newest first. The full scan result is cached until the next write.
func (s *Service) Permanent(ctx context.Context) ([]SharedDocumentDTO, error) {
	if s.cache != nil {
		var cached []SharedDocumentDTO
		if ok, err := s.cache.Get(ctx, &cached); err == nil && ok {
			return cached, nil
		}
	}

	all, err := s.repo.All(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to read documents")
	}
	profiles, err := s.profiles.All(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to read profiles")
	}

	out := []SharedDocumentDTO{}
	for uid, docs := range all {
		for id, doc := range docs {
			if doc.Visibility != document.VisibilityPermanent {
				continue
			}
			if doc.Tags == nil {
				doc.Tags = []string{}
			}
			out = append(out, SharedDocumentDTO{
				DocumentDTO: DocumentDTO{ID: id, Document: doc},
				Author:      profiles[uid].AsAuthor(),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CDate > out[j].CDate })

	if s.cache != nil {
		if err := s.cache.Set(ctx, out); err != nil {
			logger.Warnf("failed to cache permanent listing: %v", err)
		}
	}
	return out, nil
}

// Accessible finds a public or permanent document by id across all users and
// joins the author profile and rating. Private documents stay invisible.
func (s *Service) Accessible(ctx context.Context, id string) (SharedDocumentDTO, error) {
	all, err := s.repo.All(ctx)
	if err != nil {
		return SharedDocumentDTO{}, apperr.Internal("failed to read documents")
	}

	var found *document.Document
	var ownerUID string
	for uid, docs := range all {
		if doc, ok := docs[id]; ok &&
			(doc.Visibility == document.VisibilityPublic || doc.Visibility == document.VisibilityPermanent) {
			found = &doc
			ownerUID = uid
			break
		}
	}
	if found == nil {
		return SharedDocumentDTO{}, apperr.NotFound("cannot find document")
	}
	if found.Visibility == document.VisibilityPermanent && found.Tags == nil {
		found.Tags = []string{}
	}

	author, err := s.profiles.Get(ctx, ownerUID)
	if err != nil {
		return SharedDocumentDTO{}, apperr.Internal("failed to read author profile")
	}

	dto := SharedDocumentDTO{
		DocumentDTO: DocumentDTO{ID: id, Document: *found},
		Author:      author.AsAuthor(),
	}
	if s.ratings != nil {
		if rating, err := s.ratings.Get(ctx, id); err == nil {
			dto.Rating = rating
		}
	}
	return dto, nil
}

func sortByCDateDesc(docs []DocumentDTO) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].CDate > docs[j].CDate })
}
