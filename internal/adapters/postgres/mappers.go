package postgres

import "github.com/markethub/user-card-service/internal/domain"

func toDomainUser(m userModel) domain.User {
	return domain.User{
		ID: m.ID, Name: m.Name, Surname: m.Surname, BirthDate: m.BirthDate, Email: m.Email,
	}
}

func toDomainCard(m cardInfoModel) domain.CardInfo {
	return domain.CardInfo{
		ID: m.ID, UserID: m.UserID, Number: m.Number, Holder: m.Holder, ExpirationDate: m.ExpirationDate,
	}
}
