package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gorilla/sessions"
	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/internal/repository"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// cartSessionKey is where the cart lives inside the cookie session. Items are
// stored as a json string, cookie sessions cannot encode arbitrary structs.
const cartSessionKey = "cart_items"

type CartDomain interface {
	Add(context.Context, *model.AddToCartRequest) (*model.AddToCartResponse, error)
	Get(context.Context, *model.GetCartRequest) (*model.GetCartResponse, error)
	Clear(context.Context, *model.ClearCartRequest) (*model.ClearCartResponse, error)
	Checkout(context.Context, *model.CheckoutCartRequest) (*model.CheckoutCartResponse, error)
}

type cartDomain struct {
	competitionRepo repository.CompetitionRepository
	orderDomain     OrderDomain
}

func NewCartDomain(
	competitionRepo repository.CompetitionRepository,
	orderDomain OrderDomain,
) CartDomain {
	return &cartDomain{
		competitionRepo: competitionRepo,
		orderDomain:     orderDomain,
	}
}

func (d *cartDomain) Add(
	ctx context.Context, req *model.AddToCartRequest,
) (*model.AddToCartResponse, error) {
	if req.Quantity <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Quantity must be a positive number")
	}

	if _, err := d.competitionRepo.GetByHandle(ctx, req.CompetitionHandle); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found competition")
		}

		xcontext.Logger(ctx).Errorf("Cannot get competition: %v", err)
		return nil, errorx.Unknown
	}

	sess := d.session(ctx)
	items := loadCartItems(ctx, sess)

	found := false
	for i := range items {
		if items[i].CompetitionHandle == req.CompetitionHandle {
			items[i].Quantity = req.Quantity
			items[i].QuestionID = req.QuestionID
			items[i].Answer = req.Answer
			found = true
			break
		}
	}

	if !found {
		items = append(items, model.CartItem{
			CompetitionHandle: req.CompetitionHandle,
			Quantity:          req.Quantity,
			QuestionID:        req.QuestionID,
			Answer:            req.Answer,
		})
	}

	if err := saveCartItems(ctx, sess, items); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save cart session: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AddToCartResponse{Items: items}, nil
}

func (d *cartDomain) Get(
	ctx context.Context, req *model.GetCartRequest,
) (*model.GetCartResponse, error) {
	return &model.GetCartResponse{Items: loadCartItems(ctx, d.session(ctx))}, nil
}

func (d *cartDomain) Clear(
	ctx context.Context, req *model.ClearCartRequest,
) (*model.ClearCartResponse, error) {
	// The cart is the only thing living in the session, so clearing it
	// drops the whole cookie.
	sess := d.session(ctx)
	err := xcontext.SessionStore(ctx).Destroy(
		xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx), sess)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot destroy cart session: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ClearCartResponse{}, nil
}

// Checkout buys every item of the cart in order. If an item cannot be bought,
// the already completed orders stand, the failed item and everything after it
// stay in the cart, and the error of the failed item is returned.
func (d *cartDomain) Checkout(
	ctx context.Context, req *model.CheckoutCartRequest,
) (*model.CheckoutCartResponse, error) {
	sess := d.session(ctx)
	items := loadCartItems(ctx, sess)
	if len(items) == 0 {
		return nil, errorx.New(errorx.Unavailable, "Cart is empty")
	}

	orders := []model.BuyTicketsResponse{}
	for len(items) > 0 {
		item := items[0]
		resp, err := d.orderDomain.Buy(ctx, &model.BuyTicketsRequest{
			CompetitionHandle: item.CompetitionHandle,
			Quantity:          item.Quantity,
			QuestionID:        item.QuestionID,
			Answer:            item.Answer,
		})
		if err != nil {
			if serr := saveCartItems(ctx, sess, items); serr != nil {
				xcontext.Logger(ctx).Warnf("Cannot save cart session: %v", serr)
			}

			return nil, err
		}

		orders = append(orders, *resp)
		items = items[1:]
	}

	if err := saveCartItems(ctx, sess, nil); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot save cart session: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CheckoutCartResponse{Orders: orders}, nil
}

func (d *cartDomain) session(ctx context.Context) *sessions.Session {
	sess, err := xcontext.SessionStore(ctx).Get(xcontext.HTTPRequest(ctx))
	if err != nil {
		// An undecodable cookie falls back to a fresh session.
		xcontext.Logger(ctx).Debugf("Cannot decode cart session: %v", err)
	}

	return sess
}

func loadCartItems(ctx context.Context, sess *sessions.Session) []model.CartItem {
	raw, ok := sess.Values[cartSessionKey].(string)
	if !ok || raw == "" {
		return nil
	}

	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot decode cart items: %v", err)
		return nil
	}

	return items
}

func saveCartItems(ctx context.Context, sess *sessions.Session, items []model.CartItem) error {
	if len(items) == 0 {
		delete(sess.Values, cartSessionKey)
	} else {
		b, err := json.Marshal(items)
		if err != nil {
			return err
		}

		sess.Values[cartSessionKey] = string(b)
	}

	return xcontext.SessionStore(ctx).Save(xcontext.HTTPRequest(ctx), xcontext.HTTPWriter(ctx), sess)
}
