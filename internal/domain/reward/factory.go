package reward

import (
	"context"

	"github.com/rafflehub/backend/internal/entity"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
)

type Factory struct{}

func NewFactory() Factory {
	return Factory{}
}

// NewReward parses a reward payload. With needParse, the payload is also
// validated, this is used when an admin submits a new prize.
func (f Factory) NewReward(
	ctx context.Context,
	rewardType entity.RewardType,
	data map[string]any,
	needParse bool,
) (Reward, error) {
	switch rewardType {
	case entity.CashReward:
		return newCashReward(ctx, data, needParse)

	case entity.CreditReward:
		return newCreditReward(ctx, data, needParse)

	case entity.PhysicalReward:
		return newPhysicalReward(ctx, data, needParse)

	default:
		xcontext.Logger(ctx).Debugf("Invalid reward type %s", rewardType)
		return nil, errorx.New(errorx.BadRequest, "Invalid reward type")
	}
}
