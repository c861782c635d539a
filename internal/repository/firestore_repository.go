package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/basel-ax/ailogo/internal/domain"
)

// DefaultCollection is where image records go when no collection is configured.
const DefaultCollection = "images"

// imageDoc is the stored document shape.
type imageDoc struct {
	ImageURL  string    `firestore:"image_url"`
	Prompt    string    `firestore:"prompt"`
	UserID    string    `firestore:"user_id"`
	CreatedAt time.Time `firestore:"created_at"`
}

// FirestoreImageRepository appends image records to a Firestore collection.
type FirestoreImageRepository struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreClient initialises a Firebase app and returns its Firestore client.
// An empty credentialsPath falls back to application default credentials.
func NewFirestoreClient(ctx context.Context, projectID, credentialsPath string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	var fbConfig *firebase.Config
	if projectID != "" {
		fbConfig = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}
	return client, nil
}

// NewFirestoreImageRepository wraps client. An empty collection means DefaultCollection.
func NewFirestoreImageRepository(client *firestore.Client, collection string) (*FirestoreImageRepository, error) {
	if client == nil {
		return nil, errors.New("firestore client is required")
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreImageRepository{client: client, collection: collection}, nil
}

// Save writes rec under its id. Create fails if the document already exists,
// so a record is written at most once.
func (r *FirestoreImageRepository) Save(ctx context.Context, rec *domain.ImageRecord) error {
	doc := imageDoc{
		ImageURL:  rec.ImageURL,
		Prompt:    rec.Prompt,
		UserID:    rec.UserID,
		CreatedAt: rec.CreatedAt,
	}

	if _, err := r.client.Collection(r.collection).Doc(rec.ID).Create(ctx, doc); err != nil {
		return fmt.Errorf("failed to add document %s/%s: %w", r.collection, rec.ID, err)
	}
	return nil
}

// Close releases the underlying client.
func (r *FirestoreImageRepository) Close() error {
	return r.client.Close()
}

var _ domain.ImageRepository = (*FirestoreImageRepository)(nil)
