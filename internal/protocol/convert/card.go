package convert

import (
	"errors"
	"fmt"

	"github.com/palemoky/sette-e-mezzo/internal/game/card"
	"github.com/palemoky/sette-e-mezzo/internal/protocol"
)

// CardToInfo 将 card.Card 转换为 protocol.CardInfo
func CardToInfo(c card.Card) protocol.CardInfo {
	return protocol.CardInfo{
		Suit:  c.Suit.String(),
		Rank:  int(c.Rank),
		Value: c.Value,
		Wild:  c.Wild,
	}
}

// CardsToInfos 将 []card.Card 转换为 []protocol.CardInfo
func CardsToInfos(cards []card.Card) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}

// ErrHiddenCard 暗牌没有牌面信息
var ErrHiddenCard = errors.New("convert: hidden card")

// InfoToCard 将 protocol.CardInfo 转换为 card.Card，暗牌无法还原
func InfoToCard(info protocol.CardInfo) (card.Card, error) {
	if info.Hidden {
		return card.Card{}, ErrHiddenCard
	}
	suit, err := card.ParseSuit(info.Suit)
	if err != nil {
		return card.Card{}, err
	}
	rank := card.Rank(info.Rank)
	if rank < card.MinRank || rank > card.MaxRank {
		return card.Card{}, fmt.Errorf("convert: rank %d out of range", info.Rank)
	}
	return card.New(suit, rank), nil
}
