// Package waitqueue 实现获取方的 FIFO 等待队列
//
// 队列本身不加锁：除 Waiter.C 上的接收操作外，所有方法都必须在
// 持有池锁的情况下调用。每个等待者持有一个容量为 1 的通道，
// 投递方在锁内调用 Deliver 发送，等待方在锁外接收，因此投递
// 永不阻塞，超时与投递的竞争可以在锁内仲裁。
package waitqueue

// ============================================================================
//                              Waiter - 等待者
// ============================================================================

// Waiter 一个排队等待的获取方
type Waiter[V any] struct {
	c          chan V
	prev, next *Waiter[V]
	q          *Queue[V]
	delivered  bool
}

// C 返回接收通道
//
// 通道上的接收是唯一允许在锁外进行的操作。
func (w *Waiter[V]) C() <-chan V {
	return w.c
}

// Delivered 报告是否已向该等待者投递
//
// 用于超时方在锁内判断投递是否已经发生。
func (w *Waiter[V]) Delivered() bool {
	return w.delivered
}

// Deliver 向等待者投递一个值并标记已投递
//
// 只能对已经出队（PopFront 返回）的等待者调用，且最多一次；
// 通道容量为 1，发送不会阻塞。
func (w *Waiter[V]) Deliver(v V) {
	w.delivered = true
	w.c <- v
}

// ============================================================================
//                              Queue - FIFO 队列
// ============================================================================

// Queue 先进先出的等待队列
//
// 双向链表实现，入队、出队与中途移除均为 O(1)。
type Queue[V any] struct {
	head, tail *Waiter[V]
	size       int
}

// New 创建空队列
func New[V any]() *Queue[V] {
	return &Queue[V]{}
}

// Len 返回当前排队的等待者数量
func (q *Queue[V]) Len() int {
	return q.size
}

// PushBack 新建一个等待者并追加到队尾
func (q *Queue[V]) PushBack() *Waiter[V] {
	w := &Waiter[V]{c: make(chan V, 1), q: q}
	if q.tail == nil {
		q.head = w
		q.tail = w
	} else {
		w.prev = q.tail
		q.tail.next = w
		q.tail = w
	}
	q.size++
	return w
}

// PopFront 取出并移除队首等待者
//
// 队列为空时返回 nil。
func (q *Queue[V]) PopFront() *Waiter[V] {
	w := q.head
	if w == nil {
		return nil
	}
	q.unlink(w)
	return w
}

// Remove 将等待者从队列中移除
//
// 等待者已不在队列中（已被投递方取出或已移除）时返回 false。
func (q *Queue[V]) Remove(w *Waiter[V]) bool {
	if w.q == nil {
		return false
	}
	q.unlink(w)
	return true
}

func (q *Queue[V]) unlink(w *Waiter[V]) {
	if w.prev != nil {
		w.prev.next = w.next
	} else {
		q.head = w.next
	}
	if w.next != nil {
		w.next.prev = w.prev
	} else {
		q.tail = w.prev
	}
	w.prev = nil
	w.next = nil
	w.q = nil
	q.size--
}
