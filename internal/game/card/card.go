package card

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Suit 定义花色（意大利牌）
type Suit int

// Rank 定义点数 1-10
type Rank int

const (
	Coins  Suit = iota // Denari
	Cups               // Coppe
	Swords             // Spade
	Clubs              // Bastoni
)

// Suits 按发牌桌上的习惯顺序排列
var Suits = []Suit{Coins, Cups, Swords, Clubs}

var suitCodes = map[Suit]string{
	Coins:  "COINS",
	Cups:   "CUPS",
	Swords: "SWORDS",
	Clubs:  "CLUBS",
}

var suitNames = map[Suit]string{
	Coins:  "Denari",
	Cups:   "Coppe",
	Swords: "Spade",
	Clubs:  "Bastoni",
}

var suitSymbols = map[Suit]string{
	Coins:  "◉",
	Cups:   "♥",
	Swords: "♠",
	Clubs:  "♣",
}

func (s Suit) String() string {
	if code, ok := suitCodes[s]; ok {
		return code
	}
	return ""
}

// Name 返回花色的意大利名称
func (s Suit) Name() string { return suitNames[s] }

// Symbol 返回终端显示用的花色符号
func (s Suit) Symbol() string { return suitSymbols[s] }

// ParseSuit 解析花色代码
func ParseSuit(code string) (Suit, error) {
	for s, c := range suitCodes {
		if c == code {
			return s, nil
		}
	}
	return -1, fmt.Errorf("无法识别的花色: %q", code)
}

const (
	Ace     Rank = 1
	Jack    Rank = 8  // Fante
	Knight  Rank = 9  // Cavallo
	King    Rank = 10 // Re
	MinRank      = Ace
	MaxRank      = King
)

var rankNames = map[Rank]string{
	Ace:    "Asso",
	Jack:   "Fante",
	Knight: "Cavallo",
	King:   "Re",
}

// Name 返回点数的意大利名称
func (r Rank) Name() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("%d", int(r))
}

// IsFace 8、9、10 为花牌，计 0.5 点
func (r Rank) IsFace() bool { return r > 7 }

// DeckSize 一副意大利牌共 40 张
const DeckSize = 40

// FaceValue 花牌的固定点数
const FaceValue = 0.5

// ErrDeckExhausted 从空牌堆取牌，属于程序错误
var ErrDeckExhausted = errors.New("card: pop from empty deck")

// Card 定义一张牌，创建后不可变
type Card struct {
	Suit  Suit
	Rank  Rank
	Value float64
	Wild  bool // 只有金币 Re 是 Matta
}

// New 按规则创建一张牌
func New(s Suit, r Rank) Card {
	value := float64(r)
	if r.IsFace() {
		value = FaceValue
	}
	return Card{
		Suit:  s,
		Rank:  r,
		Value: value,
		Wild:  s == Coins && r == King,
	}
}

// ID 形如 "COINS-10"
func (c Card) ID() string {
	return fmt.Sprintf("%s-%d", c.Suit, int(c.Rank))
}

// Name 形如 "Re di Denari"
func (c Card) Name() string {
	return c.Rank.Name() + " di " + c.Suit.Name()
}

func (c Card) String() string {
	return c.Suit.Symbol() + c.Rank.Name()
}

// Deck 定义一副牌，牌顶在切片末尾
type Deck []Card

// Ordered 返回未洗的 40 张牌
func Ordered() Deck {
	deck := make(Deck, 0, DeckSize)
	for _, s := range Suits {
		for r := MinRank; r <= MaxRank; r++ {
			deck = append(deck, New(s, r))
		}
	}
	return deck
}

// NewDeck 创建一副洗好的新牌。r 为 nil 时使用全局随机源。
func NewDeck(r *rand.Rand) Deck {
	deck := Ordered()
	deck.Shuffle(r)
	return deck
}

// Shuffle 原地洗牌（Fisher-Yates）
func (d Deck) Shuffle(r *rand.Rand) {
	swap := func(i, j int) { d[i], d[j] = d[j], d[i] }
	if r == nil {
		rand.Shuffle(len(d), swap)
		return
	}
	r.Shuffle(len(d), swap)
}

// Pop 取出牌顶（末尾）的一张牌，返回剩余的牌堆。空牌堆会 panic。
func (d Deck) Pop() (Card, Deck) {
	if len(d) == 0 {
		panic(ErrDeckExhausted)
	}
	last := len(d) - 1
	return d[last], d[:last:last]
}

// Len 剩余张数
func (d Deck) Len() int { return len(d) }
