package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"syncial/internal/models"
	"syncial/internal/repository"
)

// FeedService owns the off-chain write paths: poll, post and comment
// creation plus likes. Chain-derived fields are never written here.
type FeedService struct {
	Store     repository.Repository
	Sanitizer *bluemonday.Policy
}

func NewFeedService(store repository.Repository) *FeedService {
	return &FeedService{
		Store:     store,
		Sanitizer: bluemonday.StrictPolicy(),
	}
}

type CreatePollInput struct {
	PollIDOnchain      string `json:"poll_id_onchain"`
	Question           string `json:"question"`
	OptionA            string `json:"option_a"`
	OptionB            string `json:"option_b"`
	Category           string `json:"category"`
	Description        string `json:"description"`
	CreatorAddressHash string `json:"creator_address_hash"`
	Deadline           int64  `json:"deadline"`
}

func (f *FeedService) CreatePoll(ctx context.Context, in CreatePollInput) (*models.Poll, error) {
	question := f.clean(in.Question)
	if question == "" {
		return nil, fmt.Errorf("question is required")
	}
	optionA := f.clean(in.OptionA)
	optionB := f.clean(in.OptionB)
	if optionA == "" || optionB == "" {
		return nil, fmt.Errorf("both options are required")
	}
	if strings.TrimSpace(in.CreatorAddressHash) == "" {
		return nil, fmt.Errorf("creator_address_hash is required")
	}
	if in.Deadline <= 0 {
		return nil, fmt.Errorf("deadline is required")
	}
	category := strings.TrimSpace(in.Category)
	if !models.ValidCategory(category) {
		category = models.DefaultCategory
	}

	item := &models.Poll{
		ID:                 uuid.NewString(),
		Question:           question,
		OptionA:            optionA,
		OptionB:            optionB,
		Category:           category,
		Description:        f.clean(in.Description),
		CreatorAddressHash: strings.TrimSpace(in.CreatorAddressHash),
		Deadline:           in.Deadline,
		Status:             models.PollStatusActive,
	}
	if onchain := strings.TrimSpace(in.PollIDOnchain); onchain != "" {
		item.PollIDOnchain = &onchain
	}
	if err := f.Store.CreatePoll(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

type CreatePostInput struct {
	PostIDOnchain     string `json:"post_id_onchain"`
	Content           string `json:"content"`
	ContentHash       string `json:"content_hash"`
	AuthorAddressHash string `json:"author_address_hash"`
	AuthorUsername    string `json:"author_username"`
	PollID            string `json:"poll_id"`
	Timestamp         int64  `json:"timestamp"`
}

func (f *FeedService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := f.clean(in.Content)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	if strings.TrimSpace(in.AuthorAddressHash) == "" {
		return nil, fmt.Errorf("author_address_hash is required")
	}

	contentHash := strings.TrimSpace(in.ContentHash)
	if contentHash == "" {
		sum := sha256.Sum256([]byte(content))
		contentHash = hex.EncodeToString(sum[:])
	}
	username := strings.TrimSpace(in.AuthorUsername)
	if username == "" {
		username = "Anonymous"
	}
	ts := in.Timestamp
	if ts <= 0 {
		ts = time.Now().UTC().Unix()
	}

	item := &models.Post{
		ID:                uuid.NewString(),
		Content:           content,
		ContentHash:       contentHash,
		AuthorAddressHash: strings.TrimSpace(in.AuthorAddressHash),
		AuthorUsername:    username,
		Timestamp:         ts,
	}
	if onchain := strings.TrimSpace(in.PostIDOnchain); onchain != "" {
		item.PostIDOnchain = &onchain
	}
	if pollID := strings.TrimSpace(in.PollID); pollID != "" {
		item.IsPoll = true
		item.PollID = &pollID
	}
	if err := f.Store.CreatePost(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

type AddCommentInput struct {
	AuthorAddressHash string `json:"author_address_hash"`
	AuthorUsername    string `json:"author_username"`
	Content           string `json:"content"`
	Timestamp         int64  `json:"timestamp"`
}

func (f *FeedService) AddComment(ctx context.Context, postID string, in AddCommentInput) (*models.Comment, error) {
	content := f.clean(in.Content)
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	if strings.TrimSpace(in.AuthorAddressHash) == "" {
		return nil, fmt.Errorf("author_address_hash is required")
	}
	post, err := f.Store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post not found")
	}

	username := strings.TrimSpace(in.AuthorUsername)
	if username == "" {
		username = "Anonymous"
	}
	ts := in.Timestamp
	if ts <= 0 {
		ts = time.Now().UTC().Unix()
	}

	item := &models.Comment{
		ID:                uuid.NewString(),
		PostID:            post.ID,
		AuthorAddressHash: strings.TrimSpace(in.AuthorAddressHash),
		AuthorUsername:    username,
		Content:           content,
		Timestamp:         ts,
	}
	if err := f.Store.AddComment(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (f *FeedService) clean(s string) string {
	s = strings.TrimSpace(s)
	if f.Sanitizer == nil {
		return s
	}
	return strings.TrimSpace(f.Sanitizer.Sanitize(s))
}
