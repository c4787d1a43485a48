package services

import (
	"bytes"
	"context"
	"io"
	"log"

	"pbm-backend/internal/idcard"
	"pbm-backend/internal/models"
)

// CardService regenerates a member's ID card on demand. The card is a pure
// projection of the stored record plus branding assets, so it is rendered
// fresh for every download and the output path is only cached as a hint.
type CardService struct {
	members  MemberStore
	blobs    BlobStore
	renderer *idcard.Renderer
}

func NewCardService(members MemberStore, blobs BlobStore, renderer *idcard.Renderer) *CardService {
	return &CardService{members: members, blobs: blobs, renderer: renderer}
}

// CardKey is the blob key a rendered card is cached under.
func CardKey(mobile string) string {
	return "idcards/" + mobile + ".pdf"
}

// RenderByMobile renders the two-page card for the member with the given
// mobile number. Returns models.ErrMemberNotFound for an unknown number.
func (s *CardService) RenderByMobile(ctx context.Context, mobile string) ([]byte, error) {
	member, err := s.members.GetByMobile(ctx, mobile)
	if err != nil {
		return nil, err
	}

	doc, err := s.renderer.Render(member, s.loadPhoto(ctx, member))
	if err != nil {
		return nil, err
	}

	// Cache the artifact; failures here never fail the download.
	key := CardKey(member.Mobile)
	if err := s.blobs.Upload(ctx, key, bytes.NewReader(doc)); err != nil {
		log.Printf("Failed to cache card %s: %v", key, err)
	} else if member.CardPath != key {
		if err := s.members.SetCardPath(ctx, member.ID, key); err != nil {
			log.Printf("Failed to record card path for %s: %v", member.Mobile, err)
		}
	}

	return doc, nil
}

// loadPhoto fetches the member's photo bytes. Any failure degrades to no
// photo; the card renders with a blank photo region.
func (s *CardService) loadPhoto(ctx context.Context, member *models.Member) []byte {
	if member.PhotoPath == "" {
		return nil
	}

	rc, err := s.blobs.Download(ctx, member.PhotoPath)
	if err != nil {
		log.Printf("Photo %s unreadable, rendering without it: %v", member.PhotoPath, err)
		return nil
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		log.Printf("Photo %s unreadable, rendering without it: %v", member.PhotoPath, err)
		return nil
	}
	return data
}
