package eventbus

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Темы событий мира
const (
	TopicChunkGenerated = "world.chunk_generated"
	TopicBlockBroken    = "world.block_broken"
	TopicBlockPlaced    = "world.block_placed"
)

// Envelope — конверт события: уникальный ID, тема, время публикации и
// полезная нагрузка
type Envelope struct {
	ID        string
	Topic     string
	Timestamp time.Time
	Payload   interface{}
}

// Handler обрабатывает событие. Вызывается синхронно в горутине
// публикации, долгая работа — забота подписчика.
type Handler func(Envelope)

// Subscription — активная подписка, отменяемая через Unsubscribe
type Subscription interface {
	Unsubscribe()
}

// Bus — шина событий процесса
type Bus interface {
	Publish(topic string, payload interface{})
	Subscribe(topic string, handler Handler) Subscription
}

// memoryBus — внутрипроцессная реализация шины
type memoryBus struct {
	mu       sync.RWMutex
	handlers map[string]map[uint64]Handler
	nextID   uint64
}

// NewMemoryBus создает внутрипроцессную шину событий
func NewMemoryBus() Bus {
	return &memoryBus{
		handlers: make(map[string]map[uint64]Handler),
	}
}

// Publish доставляет событие всем подписчикам темы
func (b *memoryBus) Publish(topic string, payload interface{}) {
	env := Envelope{
		ID:        uuid.NewString(),
		Topic:     topic,
		Timestamp: time.Now(),
		Payload:   payload,
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[topic]))
	for _, h := range b.handlers[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(env)
	}
}

// Subscribe регистрирует обработчик темы
func (b *memoryBus) Subscribe(topic string, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[topic] == nil {
		b.handlers[topic] = make(map[uint64]Handler)
	}
	id := b.nextID
	b.nextID++
	b.handlers[topic][id] = handler

	return &subscription{bus: b, topic: topic, id: id}
}

type subscription struct {
	bus   *memoryBus
	topic string
	id    uint64
	once  sync.Once
}

// Unsubscribe снимает подписку; повторные вызовы безопасны
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		delete(s.bus.handlers[s.topic], s.id)
	})
}
