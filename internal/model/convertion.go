package model

import (
	"time"

	"github.com/rafflehub/backend/internal/entity"
)

const DefaultTimeLayout = time.RFC3339Nano

func ConvertShortUser(user *entity.User) ShortUser {
	if user == nil {
		return ShortUser{}
	}

	return ShortUser{
		ID:        user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ShortUser: ConvertShortUser(user),
		Role:      string(user.Role),
		Address:   user.Address.String,
	}
}

func ConvertCategory(category *entity.Category) Category {
	if category == nil {
		return Category{}
	}

	return Category{
		ID:        category.ID,
		Name:      category.Name,
		CreatedBy: category.CreatedBy,
		CreatedAt: category.CreatedAt.Format(DefaultTimeLayout),
		UpdatedAt: category.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertRewards(rewards []entity.Reward) []Reward {
	clientRewards := []Reward{}
	for _, r := range rewards {
		clientRewards = append(clientRewards, Reward{Type: string(r.Type), Data: r.Data})
	}

	return clientRewards
}

// ConvertQuestion never carries the answer to the client.
func ConvertQuestion(question *entity.Question) Question {
	if question == nil {
		return Question{}
	}

	return Question{
		ID:      question.ID,
		Text:    question.Text,
		Options: question.Options,
	}
}

func ConvertPrize(prize *entity.Prize) Prize {
	if prize == nil {
		return Prize{}
	}

	return Prize{
		ID:               prize.ID,
		Title:            prize.Title,
		Description:      prize.Description,
		Position:         prize.Position,
		Rewards:          ConvertRewards(prize.Rewards),
		AvailableRewards: prize.AvailableRewards,
		WonRewards:       prize.WonRewards,
	}
}

func ConvertCompetitionImage(image *entity.CompetitionImage) CompetitionImage {
	if image == nil {
		return CompetitionImage{}
	}

	return CompetitionImage{
		ID:       image.ID,
		Url:      image.Url,
		Width:    image.Width,
		Position: image.Position,
	}
}

func ConvertCompetition(
	competition *entity.Competition, category *entity.Category, soldCount int64,
) Competition {
	if competition == nil {
		return Competition{}
	}

	return Competition{
		ID:              competition.ID,
		Handle:          competition.Handle,
		Title:           competition.Title,
		Description:     string(competition.Description),
		ImageURL:        competition.ImageURL,
		Category:        ConvertCategory(category),
		CreatedBy:       competition.CreatedBy,
		NumberOfEntries: competition.NumberOfEntries,
		SoldCount:       soldCount,
		TicketPrice:     competition.TicketPrice,
		MaxPerUser:      competition.MaxPerUser,
		StartDate:       competition.StartDate.Format(DefaultTimeLayout),
		EndDate:         competition.EndDate.Format(DefaultTimeLayout),
		Status:          string(competition.Status),
		DrawSeedDigest:  competition.DrawSeedDigest,
		TrendingScore:   competition.TrendingScore,
	}
}

func ConvertOrder(order *entity.Order, user *entity.User, competition Competition) Order {
	if order == nil {
		return Order{}
	}

	return Order{
		ID:            order.ID,
		User:          ConvertShortUser(user),
		Competition:   competition,
		Quantity:      order.Quantity,
		TicketNumbers: order.TicketNumbers,
		TotalPrice:    order.TotalPrice,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertWinner(
	winner *entity.Winner,
	prize *entity.Prize,
	user *entity.User,
	ticketNumber int,
	competition Competition,
) Winner {
	if winner == nil {
		return Winner{}
	}

	return Winner{
		ID:           winner.ID,
		Competition:  competition,
		Prize:        ConvertPrize(prize),
		TicketNumber: ticketNumber,
		User:         ConvertShortUser(user),
		IsClaimed:    winner.IsClaimed,
		CreatedAt:    winner.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertSaleEvent(event *entity.SaleEvent, user *entity.User) SaleEvent {
	if event == nil {
		return SaleEvent{}
	}

	return SaleEvent{
		User:        ConvertShortUser(user),
		Quantity:    event.Quantity,
		FirstNumber: event.FirstNumber,
		CreatedAt:   event.CreatedAt.Format(DefaultTimeLayout),
	}
}
