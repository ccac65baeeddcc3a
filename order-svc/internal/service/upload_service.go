package service

import (
	"context"

	"restobar/order-svc/internal/domain"
)

// Payment proofs and PWD documents are personal; catalog images and the
// shop settings images are public.
var privateUploadFolders = map[string]bool{
	"proofs":       true,
	"reservations": true,
	"pwd":          true,
}

func IsPrivateUpload(folder string) bool {
	return privateUploadFolders[folder]
}

type UploadService struct {
	uploads UploadRepository
}

func NewUploadService(uploads UploadRepository) *UploadService {
	return &UploadService{uploads: uploads}
}

// Authorize lets staff managers read any private upload and customers read
// only their own. Other users get not-found so file names do not leak.
func (s *UploadService) Authorize(ctx context.Context, user domain.CurrentUser, folder, path string) error {
	if !IsPrivateUpload(folder) {
		return nil
	}
	if user.Is(domain.RoleStaff, domain.RoleAdmin) {
		return nil
	}

	owner, err := s.uploads.UploadOwner(ctx, path)
	if err != nil {
		return err
	}
	if owner != user.ID {
		return domain.ErrUploadNotFound
	}
	return nil
}
