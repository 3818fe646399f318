package usecase

import (
	"math/rand"
	"time"

	"github.com/sunnwydays/LittleLemonRestaurant/internal/domain/model"
)

// 配達担当を候補から1人選ぶ。テストでは固定の実装を差し込む。
// 均等ランダムで負荷や稼働状況は見ない（現状の仕様どおり）。
type CrewSelector interface {
	Choose(candidates []model.User) model.User
}

type RandomCrewSelector struct {
	rng *rand.Rand
}

func NewRandomCrewSelector() *RandomCrewSelector {
	return &RandomCrewSelector{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *RandomCrewSelector) Choose(candidates []model.User) model.User {
	return candidates[s.rng.Intn(len(candidates))]
}
