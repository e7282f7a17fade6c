// Package inquiry records the request forms of the service pages (catering,
// corporate meals, private chef, delivery) in the submitting profile's store.
package inquiry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"fusion6/models"
	"fusion6/store"
)

const (
	ServiceCatering       = "catering"
	ServiceCorporateMeals = "corporate-meals"
	ServicePrivateChef    = "private-chef"
	ServiceFoodDelivery   = "food-delivery"
)

var ErrUnknownService = errors.New("unknown service")

var services = map[string]bool{
	ServiceCatering:       true,
	ServiceCorporateMeals: true,
	ServicePrivateChef:    true,
	ServiceFoodDelivery:   true,
}

// Known reports whether service takes inquiries.
func Known(service string) bool {
	return services[service]
}

// Key is the store key of a service's inquiry log, e.g. "corporateMealsInquiries".
func Key(service string) string {
	parts := strings.Split(service, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "") + "Inquiries"
}

type Service struct {
	validate *validator.Validate
	now      func() time.Time

	// serializes read-modify-write of the inquiry logs
	mu sync.Mutex
}

func NewService() *Service {
	return &Service{
		validate: validator.New(),
		now:      time.Now,
	}
}

// Submit validates the form and appends it to the service's log.
func (s *Service) Submit(ctx context.Context, profile *store.Store, service string, form models.Inquiry) (*models.Inquiry, error) {
	if !Known(service) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownService, service)
	}
	if err := s.validate.Struct(form); err != nil {
		return nil, err
	}

	form.ID = uuid.NewString()
	form.Service = service
	form.SubmittedAt = s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.List(ctx, profile, service)
	profile.Save(ctx, Key(service), append(log, form))
	return &form, nil
}

func (s *Service) List(ctx context.Context, profile *store.Store, service string) []models.Inquiry {
	return store.Load(ctx, profile, Key(service), []models.Inquiry{})
}
