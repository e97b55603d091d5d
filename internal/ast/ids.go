package ast

type (
	ExprID    uint32
	TypeID    uint32
	PatternID uint32
	// подсущности
	PayloadID uint32
)

const (
	NoExprID    ExprID    = 0
	NoTypeID    TypeID    = 0
	NoPatternID PatternID = 0
	NoPayloadID PayloadID = 0
)

func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id PatternID) IsValid() bool { return id != NoPatternID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
