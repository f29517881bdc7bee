package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"lookframe-server/modules/asset"
	"lookframe-server/modules/common/config"
	"lookframe-server/modules/common/credit"
	"lookframe-server/modules/common/database"
	redisutil "lookframe-server/modules/common/redis"
	"lookframe-server/modules/common/storage"
	"lookframe-server/modules/preset"
	"lookframe-server/modules/prompt"
	"lookframe-server/modules/studio"
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 개발용 - 모든 origin 허용
		return true
	},
}

// Job 진행 상황을 구독하는 클라이언트
type Client struct {
	conn  *websocket.Conn
	jobID string
	send  chan []byte
}

// Job별 구독자 그룹
type subscription struct {
	clients      map[*Client]bool
	mutex        sync.RWMutex
	createdAt    time.Time
	lastActivity time.Time
}

// 서버 메트릭
type ServerMetrics struct {
	TotalConnections int       `json:"totalConnections"`
	EventsDelivered  int       `json:"eventsDelivered"`
	StartTime        time.Time `json:"startTime"`
	mutex            sync.RWMutex
}

// JobHub - Job 진행 이벤트를 구독자에게 중계. studio.ProgressNotifier 구현.
type JobHub struct {
	subscriptions map[string]*subscription
	mutex         sync.RWMutex
	metrics       *ServerMetrics
}

var jobHub = &JobHub{
	subscriptions: make(map[string]*subscription),
	metrics: &ServerMetrics{
		StartTime: time.Now(),
	},
}

func (h *JobHub) getOrCreateSubscription(jobID string) *subscription {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	sub, exists := h.subscriptions[jobID]
	if !exists {
		sub = &subscription{
			clients:      make(map[*Client]bool),
			createdAt:    time.Now(),
			lastActivity: time.Now(),
		}
		h.subscriptions[jobID] = sub
	}

	sub.lastActivity = time.Now()
	return sub
}

func (h *JobHub) addClient(client *Client) {
	sub := h.getOrCreateSubscription(client.jobID)

	sub.mutex.Lock()
	sub.clients[client] = true
	clientCount := len(sub.clients)
	sub.mutex.Unlock()

	h.metrics.mutex.Lock()
	h.metrics.TotalConnections++
	h.metrics.mutex.Unlock()

	log.Printf("👤 Client subscribed to job %s (Subscribers: %d)", client.jobID, clientCount)
}

func (h *JobHub) removeClient(client *Client) {
	h.mutex.RLock()
	sub, exists := h.subscriptions[client.jobID]
	h.mutex.RUnlock()

	if !exists {
		return
	}

	sub.mutex.Lock()
	if _, ok := sub.clients[client]; ok {
		delete(sub.clients, client)
		close(client.send)
		log.Printf("👋 Client left job %s (Remaining: %d)", client.jobID, len(sub.clients))
	}
	sub.mutex.Unlock()
}

// Notify - 워커가 보낸 진행 이벤트를 해당 Job 구독자 전원에게 전송
func (h *JobHub) Notify(event studio.ProgressEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("⚠️ Failed to marshal progress event: %v", err)
		return
	}

	h.mutex.RLock()
	sub, exists := h.subscriptions[event.JobID]
	h.mutex.RUnlock()

	if !exists {
		return
	}

	sub.mutex.RLock()
	for client := range sub.clients {
		select {
		case client.send <- data:
		default:
			// 버퍼가 가득 찬 느린 클라이언트는 건너뜀
		}
	}
	delivered := len(sub.clients)
	sub.mutex.RUnlock()

	sub.mutex.Lock()
	sub.lastActivity = time.Now()
	sub.mutex.Unlock()

	h.metrics.mutex.Lock()
	h.metrics.EventsDelivered += delivered
	h.metrics.mutex.Unlock()
}

// 빈 구독 그룹 정리
func (h *JobHub) cleanupEmptySubscriptions() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	cleaned := 0
	for jobID, sub := range h.subscriptions {
		sub.mutex.RLock()
		isEmpty := len(sub.clients) == 0
		isStale := time.Since(sub.lastActivity) > 30*time.Minute
		sub.mutex.RUnlock()

		if isEmpty && isStale {
			delete(h.subscriptions, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		log.Printf("🧹 Cleaned up %d idle job subscriptions", cleaned)
	}
}

func (h *JobHub) startCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			h.cleanupEmptySubscriptions()
		}
	}()

	log.Printf("🔄 Started subscription cleanup routine (every 5min)")
}

// WebSocket 핸들러 - /ws?job={jobId}
func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job")
	if jobID == "" {
		http.Error(w, "job parameter is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		conn:  conn,
		jobID: jobID,
		send:  make(chan []byte, 64),
	}

	log.Printf("🔍 New WebSocket connection for job %s", jobID)
	jobHub.addClient(client)

	go client.writePump()
	go client.readPump()
}

// 클라이언트로부터 읽기. 진행 스트림은 단방향이라 연결 종료 감지 용도.
func (c *Client) readPump() {
	defer func() {
		jobHub.removeClient(c)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// 클라이언트로 이벤트 쓰기
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}

	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "lookframe-server",
	})
}

// 서버 메트릭 조회 엔드포인트
func getMetrics(w http.ResponseWriter, r *http.Request) {
	jobHub.metrics.mutex.RLock()
	metrics := *jobHub.metrics
	jobHub.metrics.mutex.RUnlock()

	jobHub.mutex.RLock()
	activeSubscriptions := len(jobHub.subscriptions)
	totalClients := 0
	for _, sub := range jobHub.subscriptions {
		sub.mutex.RLock()
		totalClients += len(sub.clients)
		sub.mutex.RUnlock()
	}
	jobHub.mutex.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"server": map[string]interface{}{
			"uptime":              time.Since(metrics.StartTime).String(),
			"startTime":           metrics.StartTime,
			"totalConnections":    metrics.TotalConnections,
			"eventsDelivered":     metrics.EventsDelivered,
			"activeSubscriptions": activeSubscriptions,
			"currentClients":      totalClients,
		},
	})
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	rdb := redisutil.Connect(cfg)
	if rdb == nil {
		log.Fatalf("❌ Failed to connect to Redis")
	}

	db := database.NewClient()
	st := storage.NewClient()
	cr := credit.NewClient(db.Supabase())
	templateStore := prompt.NewStore(db)

	service := studio.NewService(cfg, rdb, db, st, cr, templateStore)

	// 정리 루틴 시작
	jobHub.startCleanupRoutine()

	// Redis Queue Worker 시작 (백그라운드)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	worker := studio.NewWorker(cfg, rdb, db, st, service, jobHub)
	go worker.Start(workerCtx)

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/ws", handleWebSocket)
	r.HandleFunc("/metrics", getMetrics).Methods("GET")

	studio.NewHandler(cfg, rdb, db, service).RegisterRoutes(r)
	preset.NewHandler(cfg, db).RegisterRoutes(r)
	asset.NewHandler(cfg, db, st).RegisterRoutes(r)
	prompt.NewHandler(templateStore).RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 Lookframe Studio Server starting on port %s", port)
		log.Printf("📡 WebSocket endpoint: ws://localhost:%s/ws?job={jobId}", port)
		log.Printf("❤️  Health check: http://localhost:%s/health", port)
		log.Printf("📊 Metrics: http://localhost:%s/metrics", port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 종료 시그널 대기
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("🛑 Shutting down...")
	stopWorker()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown error: %v", err)
	}
}
