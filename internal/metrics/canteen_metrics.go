package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// CanteenMetrics содержит метрики менеджеров корзины, заказов и уведомлений.
type CanteenMetrics struct {
	// Счётчики операций
	ordersPlaced       prometheus.Counter
	cartAdds           prometheus.Counter
	notificationsAdded prometheus.Counter
	toastsShown        prometheus.Counter
	corruptRecoveries  prometheus.Counter

	// Вытеснения по спискам (orders, notifications)
	evictions *prometheus.CounterVec

	// Размер батча при оформлении корзины
	checkoutBatchSize prometheus.Histogram

	// Gauge текущего состояния
	cartLines           prometheus.Gauge
	unreadNotifications prometheus.Gauge
	activeToasts        prometheus.Gauge
}

// NewCanteenMetrics создаёт и регистрирует метрики в реестре по умолчанию.
func NewCanteenMetrics() *CanteenMetrics {
	return newCanteenMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCanteenMetricsWithRegisterer(registerer prometheus.Registerer) *CanteenMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CanteenMetrics{
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "canteen_orders_placed_total",
			Help: "Total number of order line items placed",
		}),
		cartAdds: registerCounter(registerer, prometheus.CounterOpts{
			Name: "canteen_cart_adds_total",
			Help: "Total number of add-to-cart operations",
		}),
		notificationsAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "canteen_notifications_added_total",
			Help: "Total number of notifications added",
		}),
		toastsShown: registerCounter(registerer, prometheus.CounterOpts{
			Name: "canteen_toasts_shown_total",
			Help: "Total number of transient toasts shown",
		}),
		corruptRecoveries: registerCounter(registerer, prometheus.CounterOpts{
			Name: "canteen_corrupt_state_recoveries_total",
			Help: "Total number of corrupt persisted states replaced with empty defaults",
		}),
		evictions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "canteen_evictions_total",
			Help: "Total number of oldest-first evictions per bounded list",
		}, []string{"list"}),
		checkoutBatchSize: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "canteen_checkout_batch_size",
			Help:    "Number of cart lines converted to orders per checkout",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		}),
		cartLines: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "canteen_cart_lines",
			Help: "Current number of distinct cart lines",
		}),
		unreadNotifications: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "canteen_unread_notifications",
			Help: "Current number of unread notifications",
		}),
		activeToasts: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "canteen_active_toasts",
			Help: "Number of toasts currently displayed",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderPlaced увеличивает счётчик оформленных позиций заказов.
func (m *CanteenMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}

// RecordCartAdd увеличивает счётчик добавлений в корзину.
func (m *CanteenMetrics) RecordCartAdd() {
	m.cartAdds.Inc()
}

// RecordNotificationAdded увеличивает счётчик созданных уведомлений.
func (m *CanteenMetrics) RecordNotificationAdded() {
	m.notificationsAdded.Inc()
}

// RecordToastShown увеличивает счётчик показанных тостов.
func (m *CanteenMetrics) RecordToastShown() {
	m.toastsShown.Inc()
}

// RecordCorruptRecovery увеличивает счётчик восстановлений после повреждения состояния.
func (m *CanteenMetrics) RecordCorruptRecovery() {
	m.corruptRecoveries.Inc()
}

// RecordEviction увеличивает счётчик вытеснений для указанного списка.
func (m *CanteenMetrics) RecordEviction(list string) {
	m.evictions.WithLabelValues(list).Inc()
}

// RecordCheckoutBatch записывает размер батча при оформлении корзины.
func (m *CanteenMetrics) RecordCheckoutBatch(lines int) {
	m.checkoutBatchSize.Observe(float64(lines))
}

// SetCartLines обновляет gauge числа позиций корзины.
func (m *CanteenMetrics) SetCartLines(n int) {
	m.cartLines.Set(float64(n))
}

// SetUnreadNotifications обновляет gauge непрочитанных уведомлений.
func (m *CanteenMetrics) SetUnreadNotifications(n int) {
	m.unreadNotifications.Set(float64(n))
}

// SetActiveToasts обновляет gauge активных тостов.
func (m *CanteenMetrics) SetActiveToasts(n int) {
	m.activeToasts.Set(float64(n))
}
