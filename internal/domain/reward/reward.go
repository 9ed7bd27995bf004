package reward

import (
	"context"

	"github.com/mitchellh/mapstructure"
	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// Reward is one parsed reward payload of a prize. The concrete value keeps
// structs tags, so callers can turn it back into a data map with structs.Map.
type Reward interface {
	Type() entity.RewardType
}

var supportedCurrencies = []string{"GBP", "USD", "EUR"}

// Cash reward
type cashReward struct {
	Amount   float64 `mapstructure:"amount" structs:"amount"`
	Currency string  `mapstructure:"currency" structs:"currency"`
}

func newCashReward(ctx context.Context, data map[string]any, needParse bool) (*cashReward, error) {
	reward := cashReward{}
	err := mapstructure.Decode(data, &reward)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse {
		if reward.Amount <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Amount must be a positive")
		}

		if !slices.Contains(supportedCurrencies, reward.Currency) {
			return nil, errorx.New(errorx.BadRequest, "Got an unsupported currency %s", reward.Currency)
		}
	}

	return &reward, nil
}

func (r *cashReward) Type() entity.RewardType {
	return entity.CashReward
}

// Site credit reward
type creditReward struct {
	Amount float64 `mapstructure:"amount" structs:"amount"`
}

func newCreditReward(ctx context.Context, data map[string]any, needParse bool) (*creditReward, error) {
	reward := creditReward{}
	err := mapstructure.Decode(data, &reward)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse {
		if reward.Amount <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Amount must be a positive")
		}
	}

	return &reward, nil
}

func (r *creditReward) Type() entity.RewardType {
	return entity.CreditReward
}

// Physical reward
type physicalReward struct {
	Name        string `mapstructure:"name" structs:"name"`
	Description string `mapstructure:"description" structs:"description"`
}

func newPhysicalReward(ctx context.Context, data map[string]any, needParse bool) (*physicalReward, error) {
	reward := physicalReward{}
	err := mapstructure.Decode(data, &reward)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode map to struct: %v", err)
		return nil, errorx.Unknown
	}

	if needParse {
		if reward.Name == "" {
			return nil, errorx.New(errorx.BadRequest, "Not found name of physical reward")
		}
	}

	return &reward, nil
}

func (r *physicalReward) Type() entity.RewardType {
	return entity.PhysicalReward
}
