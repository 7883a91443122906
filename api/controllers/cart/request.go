package cart

import (
	cartdto "github.com/angelmondragon/leadquote-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
)

func toItemPayload(req cartdto.ItemRequest) types.ItemPayload {
	return types.ItemPayload{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Price:         req.Price,
		ConsumerPrice: req.ConsumerPrice,
		Times:         req.Times,
		IPI:           req.IPI,
		ST:            req.ST,
		TTD:           req.TTD,
	}
}
