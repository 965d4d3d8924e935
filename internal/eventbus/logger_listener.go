package eventbus

import (
	"github.com/penguinawesome1/floralcraft/internal/logging"
)

// LoggerListener пишет события шины в лог компонента events
type LoggerListener struct {
	logger        *logging.Logger
	subscriptions []Subscription
}

// NewLoggerListener подписывает логирующий слушатель на перечисленные
// темы шины
func NewLoggerListener(bus Bus, topics ...string) *LoggerListener {
	l := &LoggerListener{
		logger: logging.GetComponentLogger("events"),
	}
	for _, topic := range topics {
		l.subscriptions = append(l.subscriptions, bus.Subscribe(topic, l.handle))
	}
	return l
}

func (l *LoggerListener) handle(env Envelope) {
	l.logger.Debug("событие %s id=%s payload=%v", env.Topic, env.ID, env.Payload)
}

// Close снимает все подписки слушателя
func (l *LoggerListener) Close() {
	for _, s := range l.subscriptions {
		s.Unsubscribe()
	}
	l.subscriptions = nil
}
