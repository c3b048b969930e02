package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/nightguard-api/internal/models"
	"github.com/noah-isme/nightguard-api/internal/observability"
	"github.com/noah-isme/nightguard-api/internal/permission"
	"github.com/noah-isme/nightguard-api/internal/repository"
	"github.com/noah-isme/nightguard-api/internal/storage"
)

// DocumentPathPrefix is prepended to stored file names in user.document_path.
const DocumentPathPrefix = "/api/documents/"

var (
	// ErrNoFileUploaded indicates the multipart request carried no document.
	ErrNoFileUploaded = NewValidationError("No file uploaded")
	// ErrInvalidDocumentType indicates the document type is not recognised.
	ErrInvalidDocumentType = NewValidationError("Invalid document type. Must be 'security_license' or 'rsa_certificate'")
	// ErrVerifiedFlagRequired indicates the verify body lacked a boolean flag.
	ErrVerifiedFlagRequired = NewValidationError("Invalid request: 'verified' field must be a boolean")
)

// allowed extensions and the content type the upload must sniff as
var documentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

// DocumentStore persists uploaded files by name.
type DocumentStore interface {
	Save(ctx context.Context, name string, reader io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Remove(name string) error
}

// StoredDocument is an opened document ready to be streamed.
type StoredDocument struct {
	Name        string
	ContentType string
	Body        io.ReadCloser
}

// DocumentService handles staff licence uploads and their verification.
type DocumentService interface {
	Upload(ctx context.Context, actor Actor, documentType string, file *multipart.FileHeader) (models.User, error)
	Verify(ctx context.Context, actor Actor, userID uint, verified *bool) (models.User, error)
	Open(ctx context.Context, actor Actor, filename string) (StoredDocument, error)
}

// DocumentOptions tunes upload limits and read access.
type DocumentOptions struct {
	MaxSizeMB int
	OwnerOnly bool
}

type documentService struct {
	users     repository.UserRepository
	store     DocumentStore
	activity  ActivityRecorder
	events    EventPublisher
	logger    zerolog.Logger
	maxSize   int64
	ownerOnly bool
	tooLarge  error
	tracer    trace.Tracer
}

// NewDocumentService constructs the document service.
func NewDocumentService(users repository.UserRepository, store DocumentStore, opts DocumentOptions, activity ActivityRecorder, events EventPublisher, logger zerolog.Logger) DocumentService {
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 5
	}
	tooLarge := ErrUploadTooLarge
	if opts.MaxSizeMB != 5 {
		tooLarge = kindError(ErrUploadTooLarge, fmt.Sprintf("File too large. Maximum size is %dMB.", opts.MaxSizeMB))
	}
	return &documentService{
		users:     users,
		store:     store,
		activity:  activity,
		events:    publisherOrNoop(events),
		logger:    logger.With().Str("component", "document_service").Logger(),
		maxSize:   int64(opts.MaxSizeMB) * 1024 * 1024,
		ownerOnly: opts.OwnerOnly,
		tooLarge:  tooLarge,
		tracer:    otel.Tracer("github.com/noah-isme/nightguard-api/internal/service/document"),
	}
}

func (s *documentService) Upload(ctx context.Context, actor Actor, documentType string, file *multipart.FileHeader) (models.User, error) {
	ctx, span := s.tracer.Start(ctx, "document.upload")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("upload.max_bytes", s.maxSize),
		attribute.String("document.type", documentType),
		attribute.Int("user.id", int(actor.ID)),
	)

	fail := func(result string, err error) (models.User, error) {
		observability.DocumentUploads().WithLabelValues(result).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, result)
		return models.User{}, err
	}

	if file == nil {
		return fail("missing", ErrNoFileUploaded)
	}
	if err := checkDocumentRole(actor.Role, documentType); err != nil {
		return fail("document_type", err)
	}
	if file.Size > s.maxSize {
		return fail("size", s.tooLarge)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	expected, ok := documentTypes[ext]
	if !ok {
		return fail("type", ErrUploadTypeNotAllowed)
	}

	handle, err := file.Open()
	if err != nil {
		return fail("read", err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		return fail("read", err)
	}
	if int64(buf.Len()) > s.maxSize {
		return fail("size", s.tooLarge)
	}

	detected := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", detected.String()))
	if !detected.Is(expected) {
		return fail("type", ErrUploadTypeNotAllowed)
	}

	name := "document-" + uuid.NewString() + ext
	if err := s.store.Save(ctx, name, bytes.NewReader(buf.Bytes())); err != nil {
		return fail("storage", err)
	}

	path := DocumentPathPrefix + name
	verified := false
	user, err := s.users.Update(ctx, actor.ID, repository.UserUpdate{
		DocumentPath:     &path,
		DocumentType:     &documentType,
		DocumentVerified: &verified,
	})
	if err != nil {
		if removeErr := s.store.Remove(name); removeErr != nil {
			s.logger.Warn().Err(removeErr).Str("file", name).Msg("failed to remove orphaned document")
		}
		return fail("persistence", notFoundAs(err, ErrUserNotFound))
	}

	observability.DocumentUploads().WithLabelValues("stored").Inc()
	span.SetStatus(codes.Ok, "stored")

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     "document.uploaded",
		EntityType: "user",
		EntityID:   &user.ID,
		Metadata:   map[string]interface{}{"document_type": documentType, "file": name, "size_bytes": buf.Len()},
	})
	s.events.Publish(ctx, OperationalEvent{Type: EventDocumentUploaded, EntityID: user.ID, ActorID: actor.ID})

	return user, nil
}

// checkDocumentRole enforces that guards upload a security licence and venue
// staff an RSA certificate. Managers and admins may upload either.
func checkDocumentRole(role permission.Role, documentType string) error {
	if documentType != models.DocumentTypeSecurityLicense && documentType != models.DocumentTypeRSACertificate {
		return ErrInvalidDocumentType
	}

	mismatch := (role == permission.Security && documentType != models.DocumentTypeSecurityLicense) ||
		(role == permission.Staff && documentType != models.DocumentTypeRSACertificate)
	if mismatch {
		return NewValidationError(fmt.Sprintf(
			"Invalid document type for %s role. Security staff must upload 'security_license', venue staff must upload 'rsa_certificate'",
			role,
		))
	}
	return nil
}

func (s *documentService) Verify(ctx context.Context, actor Actor, userID uint, verified *bool) (models.User, error) {
	if !actor.Allows(permission.Admin) {
		return models.User{}, ErrAdminRequired
	}
	if verified == nil {
		return models.User{}, ErrVerifiedFlagRequired
	}

	user, err := s.users.Update(ctx, userID, repository.UserUpdate{DocumentVerified: verified})
	if err != nil {
		return models.User{}, notFoundAs(err, ErrUserNotFound)
	}

	eventType := EventDocumentVerified
	action := "document.verified"
	if !*verified {
		eventType = EventDocumentRejected
		action = "document.rejected"
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      actor,
		Action:     action,
		EntityType: "user",
		EntityID:   &user.ID,
		Metadata:   map[string]interface{}{"document_type": user.DocumentType},
	})
	s.events.Publish(ctx, OperationalEvent{Type: eventType, EntityID: user.ID, ActorID: actor.ID})

	return user, nil
}

func (s *documentService) Open(ctx context.Context, actor Actor, filename string) (StoredDocument, error) {
	if s.ownerOnly && !actor.Allows(permission.Manager) {
		owner, err := s.users.GetByID(ctx, actor.ID)
		if err != nil {
			return StoredDocument{}, notFoundAs(err, ErrUnauthenticated)
		}
		if owner.DocumentPath == nil || *owner.DocumentPath != DocumentPathPrefix+filename {
			return StoredDocument{}, forbidden("You may only view your own documents")
		}
	}

	body, err := s.store.Open(ctx, filename)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
		return StoredDocument{}, ErrDocumentNotFound
	}
	if err != nil {
		return StoredDocument{}, err
	}

	contentType := documentTypes[strings.ToLower(filepath.Ext(filename))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return StoredDocument{Name: filename, ContentType: contentType, Body: body}, nil
}
