package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"anoa.com/placementportal/internal/entity"
	"anoa.com/placementportal/internal/modules/offer/dto"
	commonDto "anoa.com/placementportal/pkg/dto"
	"anoa.com/placementportal/pkg/response"
	"anoa.com/placementportal/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validator.Register(); err != nil {
		panic(err)
	}
}

type stubOfferService struct {
	created bool
}

func (s *stubOfferService) Create(_ context.Context, _ commonDto.Actor, input dto.CreateOfferInput) (*entity.Offer, error) {
	s.created = true
	return &entity.Offer{ID: uuid.New(), OfferedCTC: input.OfferedCTC, Status: entity.OfferPending}, nil
}

func (s *stubOfferService) Respond(_ context.Context, _, id uuid.UUID, action string) (*entity.Offer, error) {
	return &entity.Offer{ID: id, Status: action}, nil
}

func (s *stubOfferService) ListMine(context.Context, uuid.UUID, dto.OfferFilter) (*commonDto.Paginated[*entity.Offer], error) {
	return commonDto.NewPaginated[*entity.Offer](nil, 1, 10, 0), nil
}

func (s *stubOfferService) List(context.Context, commonDto.Actor, dto.OfferFilter) (*commonDto.Paginated[*entity.Offer], error) {
	return commonDto.NewPaginated[*entity.Offer](nil, 1, 10, 0), nil
}

func withUser(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.ContextUserID, uuid.NewString())
		c.Set(response.ContextRole, role)
	}
}

func TestCreate_Validation(t *testing.T) {
	appID := uuid.NewString()
	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"valid", `{"applicationId":"` + appID + `","offeredCtc":950000,"joiningDate":"2027-07-01T00:00:00Z"}`, http.StatusCreated, ""},
		{"zero ctc", `{"applicationId":"` + appID + `","offeredCtc":0,"joiningDate":"2027-07-01T00:00:00Z"}`, http.StatusBadRequest, "offeredCtc"},
		{"negative ctc", `{"applicationId":"` + appID + `","offeredCtc":-1,"joiningDate":"2027-07-01T00:00:00Z"}`, http.StatusBadRequest, "offeredCtc"},
		{"missing joining date", `{"applicationId":"` + appID + `","offeredCtc":10}`, http.StatusBadRequest, "joiningDate"},
		{"bad date", `{"applicationId":"` + appID + `","offeredCtc":10,"joiningDate":"next july"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubOfferService{}
			r := gin.New()
			r.POST("/offers", withUser(entity.RoleCompany), NewOfferHandler(svc).Create)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/offers", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.status == http.StatusCreated, svc.created)
			if tt.field != "" {
				assert.Contains(t, w.Body.String(), `"field":"`+tt.field+`"`)
			}
		})
	}
}

func TestRespond_Action(t *testing.T) {
	r := gin.New()
	r.POST("/offers/:id/respond", withUser(entity.RoleStudent), NewOfferHandler(&stubOfferService{}).Respond)

	for body, status := range map[string]int{
		`{"action":"accepted"}`: http.StatusOK,
		`{"action":"rejected"}`: http.StatusOK,
		`{"action":"maybe"}`:    http.StatusBadRequest,
		`{}`:                    http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/offers/"+uuid.NewString()+"/respond", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, status, w.Code, body)
	}
}
