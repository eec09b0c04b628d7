package main

import "fmt"

// MaxLumaStep — наибольшее приращение расстояния за один шаг по сетке
// (полный диапазон 8-битной яркости). Число корзин очереди обязано быть
// MaxLumaStep+1: при другой разрядности канала меняется и очередь.
const MaxLumaStep = 255

const bucketCount = MaxLumaStep + 1

// Vertex — кандидат на запись в карту смешивания.
type Vertex struct {
	X, Y  int
	Blend Blend
}

type bucket struct {
	items []Vertex
	head  int
}

// BucketQueue — очередь с приоритетами для монотонно растущих целых
// приоритетов, каждый из которых не больше минимума+MaxLumaStep.
// Корзины адресуются по кругу, поэтому вставка O(1), а извлечение
// не дольше обхода bucketCount корзин.
type BucketQueue struct {
	buckets  [bucketCount]bucket
	min      int
	minIndex int
	count    int
}

// Push кладёт вершину с приоритетом priority. Приоритет меньше текущего
// минимума или больше минимума+MaxLumaStep вызывающий передавать не должен.
func (q *BucketQueue) Push(priority int, v Vertex) {
	i := (priority - q.min + q.minIndex) % bucketCount
	b := &q.buckets[i]
	b.items = append(b.items, v)
	q.count++
}

// PopMin извлекает вершину с наименьшим приоритетом (FIFO внутри корзины).
// Извлечение из пустой очереди — ошибка программы.
func (q *BucketQueue) PopMin() (int, Vertex) {
	if q.count == 0 {
		panic("queue: очередь пуста")
	}
	steps := 0
	for q.buckets[q.minIndex].head == len(q.buckets[q.minIndex].items) {
		q.minIndex++
		if q.minIndex == bucketCount {
			q.minIndex = 0
		}
		steps++
	}
	q.min += steps

	b := &q.buckets[q.minIndex]
	v := b.items[b.head]
	b.head++
	if b.head == len(b.items) {
		// корзина опустела: переиспользуем память
		b.items = b.items[:0]
		b.head = 0
	}
	q.count--
	return q.min, v
}

// Len возвращает число вершин в очереди.
func (q *BucketQueue) Len() int { return q.count }

// IsEmpty сообщает, пуста ли очередь.
func (q *BucketQueue) IsEmpty() bool { return q.count == 0 }

func (q *BucketQueue) String() string {
	return fmt.Sprintf("Count = %d ; MinPriority = %d", q.count, q.min)
}
