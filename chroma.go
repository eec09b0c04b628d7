package main

// CloseThreshold — максимальный квадрат евклидова расстояния, при котором
// две цветности считаются неразличимыми.
const CloseThreshold = 150

// Chrominance — пара цветоразностных каналов.
type Chrominance struct {
	Cb, Cr byte
}

// Neutral отмечает ахроматический пиксель, который нужно раскрасить.
var Neutral = Chrominance{Cb: 128, Cr: 128}

// IsClose проверяет близость с порогом CloseThreshold.
func (c Chrominance) IsClose(other Chrominance) bool {
	return c.IsCloseWithin(other, CloseThreshold)
}

// IsCloseWithin проверяет, что квадрат расстояния не превышает maxSquared.
func (c Chrominance) IsCloseWithin(other Chrominance, maxSquared int) bool {
	db := int(c.Cb) - int(other.Cb)
	dr := int(c.Cr) - int(other.Cr)
	return db*db+dr*dr <= maxSquared
}
