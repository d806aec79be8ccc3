package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/ftsanjuan/modern-react-redux-blog/internal/shard"
	"github.com/ftsanjuan/modern-react-redux-blog/store"
)

// DynamoAPI is the subset of the DynamoDB client used by Dynamo.
// *dynamodb.Client satisfies it.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// createdAtLayout is fixed width so that created_at sorts lexically.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z"

// item is the DynamoDB representation of a post.
type item struct {
	PK         string `dynamodbav:"pk"`
	ID         string `dynamodbav:"id"`
	Title      string `dynamodbav:"title"`
	Categories string `dynamodbav:"categories"`
	Content    string `dynamodbav:"content"`
	CreatedAt  string `dynamodbav:"created_at"`
}

func (it item) post() store.Post {
	return store.Post{
		ID:         store.ID(it.ID),
		Title:      it.Title,
		Categories: it.Categories,
		Content:    it.Content,
	}
}

// Dynamo stores the remote post collection in a DynamoDB table.
type Dynamo struct {
	client DynamoAPI
	config DynamoConfig
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewDynamo creates a new DynamoDB remote.
func NewDynamo(client DynamoAPI, config DynamoConfig, logger *slog.Logger) *Dynamo {
	config.validate()
	if logger == nil {
		logger = slog.Default()
	}
	return &Dynamo{
		client: client,
		config: config,
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// key returns the primary key for id.
func (d *Dynamo) key(id store.ID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: shard.PostPK(id.String(), d.config.NumShards)},
		"id": &types.AttributeValueMemberS{Value: id.String()},
	}
}

// GetPost retrieves a post by id, returning ErrNotFound if missing.
func (d *Dynamo) GetPost(ctx context.Context, id store.ID) (store.Post, error) {
	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.config.Table),
		Key:       d.key(id),
	})
	if err != nil {
		return store.Post{}, err
	}
	if result.Item == nil {
		return store.Post{}, ErrNotFound
	}

	var it item
	if err := attributevalue.UnmarshalMap(result.Item, &it); err != nil {
		return store.Post{}, fmt.Errorf("unmarshal post %s: %w", id, err)
	}
	return it.post(), nil
}

// CreatePost stores a new post under a fresh UUID.
func (d *Dynamo) CreatePost(ctx context.Context, fields store.Fields) (store.Post, error) {
	id := d.newID()
	it := item{
		PK:         shard.PostPK(id, d.config.NumShards),
		ID:         id,
		Title:      fields.Title,
		Categories: fields.Categories,
		Content:    fields.Content,
		CreatedAt:  d.now().UTC().Format(createdAtLayout),
	}

	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return store.Post{}, fmt.Errorf("marshal post: %w", err)
	}

	_, err = d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.config.Table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return store.Post{}, ErrAlreadyExists
		}
		return store.Post{}, err
	}

	return it.post(), nil
}

// DeletePost removes a post. Deleting a missing post succeeds.
func (d *Dynamo) DeletePost(ctx context.Context, id store.ID) error {
	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.config.Table),
		Key:       d.key(id),
	})
	return err
}

// ListPosts returns every post ordered by creation time.
func (d *Dynamo) ListPosts(ctx context.Context) ([]store.Post, error) {
	numShards := d.config.NumShards

	// Fast path for single shard (default)
	if numShards == 1 {
		items, err := d.queryShard(ctx, shard.ShardPK(0))
		if err != nil {
			return nil, err
		}
		return sortedPosts(items), nil
	}

	// Multi-shard fan-out
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	var all []item
	var wg sync.WaitGroup
	errs := make(chan error, numShards)

	for shardNum := 0; shardNum < numShards; shardNum++ {
		wg.Add(1)
		go func(shardNum int) {
			defer wg.Done()

			items, err := d.queryShard(ctx, shard.ShardPK(shardNum))
			if err != nil {
				errs <- fmt.Errorf("shard %02x: %w", shardNum, err)
				cancel()
				return
			}

			mu.Lock()
			all = append(all, items...)
			mu.Unlock()
		}(shardNum)
	}

	wg.Wait()
	close(errs)

	// Report the first real failure, not the cancellations it caused
	var first error
	for err := range errs {
		if first == nil || errors.Is(first, context.Canceled) {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}

	d.logger.Debug("listed posts", "shards", numShards, "count", len(all))
	return sortedPosts(all), nil
}

// queryShard reads every item of one shard partition.
func (d *Dynamo) queryShard(ctx context.Context, pk string) ([]item, error) {
	var items []item

	paginator := dynamodb.NewQueryPaginator(d.client, &dynamodb.QueryInput{
		TableName:              aws.String(d.config.Table),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var pageItems []item
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &pageItems); err != nil {
			return nil, fmt.Errorf("unmarshal posts: %w", err)
		}
		items = append(items, pageItems...)
	}

	return items, nil
}

// sortedPosts orders items by creation time, then id.
func sortedPosts(items []item) []store.Post {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt < items[j].CreatedAt
		}
		return items[i].ID < items[j].ID
	})
	posts := make([]store.Post, len(items))
	for i, it := range items {
		posts[i] = it.post()
	}
	return posts
}
