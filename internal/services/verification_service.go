package services

import (
	"context"
	"strings"

	"pbm-backend/internal/models"
)

// VerificationService is the read-only projection behind the QR code's
// target endpoint. The canonical key is the mobile number (what new cards
// encode); a key carrying the membership prefix is looked up as a
// membership number so older printed cards still verify.
type VerificationService struct {
	members MemberStore
	prefix  string
}

func NewVerificationService(members MemberStore, prefix string) *VerificationService {
	return &VerificationService{members: members, prefix: prefix}
}

func (s *VerificationService) Verify(ctx context.Context, key string) (*models.VerificationResult, error) {
	var (
		member *models.Member
		err    error
	)
	if strings.HasPrefix(key, s.prefix+"-") {
		member, err = s.members.GetByMembershipNo(ctx, key)
	} else {
		member, err = s.members.GetByMobile(ctx, key)
	}
	if err != nil {
		return nil, err
	}

	return &models.VerificationResult{
		Status:       "Valid Member",
		Name:         member.Name,
		Mobile:       member.Mobile,
		District:     member.District,
		MembershipNo: member.MembershipNo,
	}, nil
}
