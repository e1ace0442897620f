package service

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"anoa.com/placementportal/internal/entity"
	"anoa.com/placementportal/internal/modules/student/dto"
	userDto "anoa.com/placementportal/internal/modules/user/dto"
	userRepo "anoa.com/placementportal/internal/modules/user/repository"
	"anoa.com/placementportal/pkg/apperror"
	commonDto "anoa.com/placementportal/pkg/dto"
	"anoa.com/placementportal/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const resumeFolder = "resumes"

type StudentService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*userDto.UserResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input dto.UpdateStudentInput) (*userDto.UserResponse, error)
	UploadResume(ctx context.Context, userID uuid.UUID, file dto.ResumeFile) (*userDto.UserResponse, error)
	List(ctx context.Context, filter dto.StudentFilter) (*commonDto.Paginated[*userDto.UserResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (*userDto.UserResponse, error)
}

// ResumeReferences counts submitted applications that link to a resume URL.
type ResumeReferences interface {
	CountByResumeURL(ctx context.Context, url string) (int64, error)
}

type studentService struct {
	users      userRepo.UserRepository
	references ResumeReferences
	storage    storage.FileStorage
}

func NewStudentService(users userRepo.UserRepository, references ResumeReferences, fileStorage storage.FileStorage) StudentService {
	return &studentService{users: users, references: references, storage: fileStorage}
}

func (s *studentService) load(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("student")
		}
		return nil, err
	}
	if user.Role != entity.RoleStudent {
		return nil, apperror.NotFound("student")
	}
	if user.StudentProfile == nil {
		user.StudentProfile = &entity.StudentProfile{UserID: user.ID, Year: 1, Skills: []string{}}
	}
	return user, nil
}

func (s *studentService) GetMe(ctx context.Context, userID uuid.UUID) (*userDto.UserResponse, error) {
	return s.GetByID(ctx, userID)
}

func (s *studentService) GetByID(ctx context.Context, id uuid.UUID) (*userDto.UserResponse, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return userDto.NewUserResponse(user), nil
}

func (s *studentService) UpdateMe(ctx context.Context, userID uuid.UUID, input dto.UpdateStudentInput) (*userDto.UserResponse, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil && strings.TrimSpace(*input.FullName) != user.FullName {
		user.FullName = strings.TrimSpace(*input.FullName)
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	profile := user.StudentProfile
	if input.Mobile != nil {
		profile.Mobile = strings.TrimSpace(*input.Mobile)
	}
	if input.Course != nil {
		profile.Course = strings.TrimSpace(*input.Course)
	}
	if input.Branch != nil {
		profile.Branch = strings.TrimSpace(*input.Branch)
	}
	if input.Year != nil {
		profile.Year = *input.Year
	}
	if input.Skills != nil {
		profile.Skills = normalizeSkills(input.Skills)
	}
	if input.CGPA != nil {
		profile.CGPA = input.CGPA
	}

	if err := s.users.SaveStudentProfile(ctx, profile); err != nil {
		return nil, err
	}
	return userDto.NewUserResponse(user), nil
}

// normalizeSkills trims entries and drops case-insensitive duplicates, keeping first spelling.
func normalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if skill == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, skill)
	}
	return out
}

func (s *studentService) UploadResume(ctx context.Context, userID uuid.UUID, file dto.ResumeFile) (*userDto.UserResponse, error) {
	if s.storage == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "file storage is not configured", nil)
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(ctx, file.Reader, resumeFolder, file.FileName)
	if err != nil {
		return nil, err
	}

	previous := user.StudentProfile.ResumeURL
	user.StudentProfile.ResumeURL = &url
	if err := s.users.SaveStudentProfile(ctx, user.StudentProfile); err != nil {
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			log.Printf("Failed to clean up resume %s: %v", url, delErr)
		}
		return nil, err
	}

	if previous != nil && *previous != "" && *previous != url {
		s.releaseResume(ctx, *previous)
	}

	return userDto.NewUserResponse(user), nil
}

// releaseResume deletes a replaced resume unless an application still links to it.
func (s *studentService) releaseResume(ctx context.Context, url string) {
	if s.references == nil {
		return
	}

	count, err := s.references.CountByResumeURL(ctx, url)
	if err != nil {
		log.Printf("Failed to check references for resume %s: %v", url, err)
		return
	}
	if count > 0 {
		return
	}

	if err := s.storage.Delete(ctx, url); err != nil {
		log.Printf("Failed to delete previous resume %s: %v", url, err)
	}
}

func (s *studentService) List(ctx context.Context, filter dto.StudentFilter) (*commonDto.Paginated[*userDto.UserResponse], error) {
	page, limit, offset := filter.Resolve()

	users, total, err := s.users.FindAll(ctx, userRepo.UserFilter{
		Role:   entity.RoleStudent,
		Search: strings.TrimSpace(filter.Search),
		Branch: strings.TrimSpace(filter.Branch),
		Year:   filter.Year,
	}, offset, limit)
	if err != nil {
		return nil, err
	}

	return commonDto.NewPaginated(userDto.NewUserResponses(users), page, limit, total), nil
}
