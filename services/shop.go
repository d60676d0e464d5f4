package services

import (
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/services/repositories"
	"github.com/lac-hong-legacy/codequest_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const SHOP_SVC = "shop_svc"

var (
	ErrNotEnoughCoins = errors.New("not enough coins")
	errAlreadyOwned   = errors.New("item already owned")
)

type ShopService struct {
	context.DefaultService

	dbSvc   DatabaseProvider
	users   *repositories.UserRepository
	shop    *repositories.ShopRepository
	metrics RewardMetrics
}

func NewShopService() *ShopService {
	return &ShopService{}
}

func (svc ShopService) Id() string {
	return SHOP_SVC
}

func (svc *ShopService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ShopService) Start() error {
	svc.wire(svc.Service(DATABASE_SVC).(DatabaseProvider), rewardMetricsFrom(svc.Service(MONITORING_SVC)))
	return nil
}

func (svc *ShopService) wire(db DatabaseProvider, metrics RewardMetrics) {
	svc.dbSvc = db
	svc.users = repositories.NewUserRepository(db.Db())
	svc.shop = repositories.NewShopRepository(db.Db())
	svc.metrics = metrics
	if svc.metrics == nil {
		svc.metrics = noopMetrics{}
	}
}

// ListItems returns the catalog. With an empty userID nothing is owned.
func (svc *ShopService) ListItems(userID string) ([]dto.ShopItemResponse, error) {
	items, err := svc.shop.GetItems()
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get shop items")
	}

	owned := map[string]bool{}
	if userID != "" {
		owned, err = svc.shop.OwnedItemIDs(userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Failed to load inventory, listing as not owned")
			owned = map[string]bool{}
		}
	}

	resp := make([]dto.ShopItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, dto.ShopItemResponse{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			ItemType:    item.ItemType,
			PriceCoins:  item.Price,
			AssetURL:    item.AssetURL,
			IsAvailable: item.IsAvailable,
			Owned:       owned[item.ID],
		})
	}
	return resp, nil
}

// Buy debits the price and adds the item to the inventory in one transaction.
// Buying an owned item is a no-op that reports already_owned.
func (svc *ShopService) Buy(userID, itemID string) (*dto.BuyItemResponse, error) {
	var (
		spent        int
		coinsLeft    int
		alreadyOwned bool
	)

	err := svc.shop.WithinTx(func(tx *gorm.DB) error {
		item, err := svc.shop.GetItem(tx, itemID)
		if err != nil {
			return err
		}
		if !item.IsAvailable {
			return gorm.ErrRecordNotFound
		}

		owned, err := svc.shop.IsOwned(tx, userID, itemID)
		if err != nil {
			return err
		}
		if owned {
			alreadyOwned = true
			user, err := svc.users.GetUserTx(tx, userID)
			if err != nil {
				return err
			}
			coinsLeft = user.Coins
			return nil
		}

		debited, err := svc.users.DebitCoins(tx, userID, item.Price)
		if err != nil {
			return err
		}
		if !debited {
			if _, err := svc.users.GetUserTx(tx, userID); err != nil {
				return err
			}
			return ErrNotEnoughCoins
		}

		added, err := svc.shop.AddToInventory(tx, userID, itemID, time.Now())
		if err != nil {
			return err
		}
		if !added {
			// A concurrent purchase won; undo this debit.
			return errAlreadyOwned
		}

		user, err := svc.users.GetUserTx(tx, userID)
		if err != nil {
			return err
		}
		spent = item.Price
		coinsLeft = user.Coins
		return nil
	})

	switch {
	case errors.Is(err, errAlreadyOwned):
		return svc.ownedResult(userID, itemID)
	case errors.Is(err, ErrNotEnoughCoins):
		return nil, shared.NewBadRequestError(err, "Not enough coins")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, shared.NewNotFoundError(err, "Item or user not found")
	case err != nil:
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to buy item")
	}

	if !alreadyOwned {
		svc.metrics.RecordPurchase(spent)
		log.WithFields(log.Fields{"user_id": userID, "item_id": itemID, "coins": spent}).Info("Shop item purchased")
	}

	return &dto.BuyItemResponse{
		ItemID:       itemID,
		Owned:        true,
		AlreadyOwned: alreadyOwned,
		CoinsSpent:   spent,
		CoinsLeft:    coinsLeft,
	}, nil
}

func (svc *ShopService) ownedResult(userID, itemID string) (*dto.BuyItemResponse, error) {
	user, err := svc.users.GetUser(userID)
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to buy item")
	}
	return &dto.BuyItemResponse{ItemID: itemID, Owned: true, AlreadyOwned: true, CoinsLeft: user.Coins}, nil
}
