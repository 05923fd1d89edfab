package application

import (
	"time"

	"github.com/markethub/user-card-service/internal/domain"
)

type Config struct {
	ServiceName string
	// CacheTTL bounds every cached entry. The expiredCards entry is not
	// re-evaluated on date rollover before the TTL elapses; callers accept
	// that staleness window.
	CacheTTL time.Duration
	// RequireFutureExpiration toggles the future-dated check on new cards.
	RequireFutureExpiration bool
}

const dateLayout = "2006-01-02"

type NewUserRequest struct {
	Name      string  `json:"name"`
	Surname   *string `json:"surname,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
	Email     string  `json:"email"`
}

type RegistrationRequest struct {
	Name      string  `json:"name"`
	Surname   *string `json:"surname,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
	Email     string  `json:"email"`
	Login     string  `json:"login"`
	Password  string  `json:"password"`
}

type NewCardRequest struct {
	CardNumber     string `json:"cardNumber"`
	CardHolderName string `json:"cardHolderName"`
	ExpirationDate string `json:"expirationDate"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Surname   *string `json:"surname,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
	Email     string  `json:"email"`
}

type CardResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	CardNumber     string `json:"cardNumber"`
	CardHolderName string `json:"cardHolderName"`
	ExpirationDate string `json:"expirationDate"`
}

type UserWithCardsResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Surname   *string        `json:"surname,omitempty"`
	BirthDate *string        `json:"birthDate,omitempty"`
	Email     string         `json:"email"`
	Cards     []CardResponse `json:"cards"`
}

type UserPage struct {
	Content       []UserResponse `json:"content"`
	TotalElements int64          `json:"total_elements"`
	TotalPages    int            `json:"total_pages"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
}

func (r NewUserRequest) toInput() (domain.NewUserInput, error) {
	in := domain.NewUserInput{
		Name:    r.Name,
		Surname: r.Surname,
		Email:   r.Email,
	}
	if r.BirthDate != nil && *r.BirthDate != "" {
		parsed, err := time.Parse(dateLayout, *r.BirthDate)
		if err != nil {
			return domain.NewUserInput{}, domain.FieldErrors{"birthDate": "must be an ISO date (YYYY-MM-DD)"}
		}
		in.BirthDate = &parsed
	}
	return in, nil
}

func (r NewCardRequest) toInput() (domain.NewCardInput, error) {
	in := domain.NewCardInput{
		Number: r.CardNumber,
		Holder: r.CardHolderName,
	}
	if r.ExpirationDate != "" {
		parsed, err := time.Parse(dateLayout, r.ExpirationDate)
		if err != nil {
			return domain.NewCardInput{}, domain.FieldErrors{"expirationDate": "must be an ISO date (YYYY-MM-DD)"}
		}
		in.ExpirationDate = parsed
	}
	return in, nil
}

func toUserResponse(u domain.User) UserResponse {
	resp := UserResponse{
		ID:      u.ID.String(),
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
	}
	if u.BirthDate != nil {
		formatted := u.BirthDate.Format(dateLayout)
		resp.BirthDate = &formatted
	}
	return resp
}

func toCardResponse(c domain.CardInfo) CardResponse {
	return CardResponse{
		ID:             c.ID.String(),
		UserID:         c.UserID.String(),
		CardNumber:     c.Number,
		CardHolderName: c.Holder,
		ExpirationDate: c.ExpirationDate.Format(dateLayout),
	}
}

func toUserWithCardsResponse(u domain.User, cards []domain.CardInfo) UserWithCardsResponse {
	resp := UserWithCardsResponse{
		ID:      u.ID.String(),
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
		Cards:   make([]CardResponse, 0, len(cards)),
	}
	if u.BirthDate != nil {
		formatted := u.BirthDate.Format(dateLayout)
		resp.BirthDate = &formatted
	}
	for _, c := range cards {
		resp.Cards = append(resp.Cards, toCardResponse(c))
	}
	return resp
}

func toUserPage(users []domain.User, total int64, page, size int) UserPage {
	out := UserPage{
		Content:       make([]UserResponse, 0, len(users)),
		TotalElements: total,
		Page:          page,
		Size:          size,
	}
	for _, u := range users {
		out.Content = append(out.Content, toUserResponse(u))
	}
	if size > 0 {
		out.TotalPages = int((total + int64(size) - 1) / int64(size))
	} else if total > 0 {
		out.TotalPages = 1
	}
	return out
}
