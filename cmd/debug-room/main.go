package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/roomserver/internal/repositories"
	"github.com/KirkDiggler/roomserver/internal/repositories/chat"
	"github.com/KirkDiggler/roomserver/internal/repositories/items"
	"github.com/KirkDiggler/roomserver/internal/repositories/occupants"
	"github.com/KirkDiggler/roomserver/internal/repositories/rooms"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: debug-room <room-id>")
		os.Exit(1)
	}

	roomID := os.Args[1]
	ctx := context.Background()
	_ = godotenv.Load()

	// Set up Redis
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test connection first
	if _, pingErr := client.Ping(ctx).Result(); pingErr != nil {
		log.Fatalf("Failed to connect to Redis: %v", pingErr)
	}
	defer func() {
		clientErr := client.Close()
		if clientErr != nil {
			log.Printf("Failed to close Redis connection: %v", clientErr)
		}
	}()

	roomRepo := rooms.NewRedis(client)
	room, err := roomRepo.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			fmt.Printf("Room %s has never been loaded\n", roomID)
			return
		}
		log.Printf("Failed to get room: %v", err)
		return
	}

	fmt.Printf("Room ID: %s\n", room.ID)
	fmt.Printf("Name: %s\n", room.Name)
	fmt.Printf("Rows: %d\n", room.Rows)
	fmt.Printf("Door: (%d,%d)\n", room.Door.X, room.Door.Y)
	fmt.Printf("Seq: %d\n", room.Seq)

	occs, err := occupants.NewRedis(client).List(ctx, roomID)
	if err != nil {
		log.Printf("Failed to list occupants: %v", err)
		return
	}
	fmt.Printf("Occupants: %d\n", len(occs))
	for _, occ := range occs {
		fmt.Printf("  %s (%s) at (%d,%d)\n", occ.UserID, occ.Username, occ.Position.X, occ.Position.Y)
	}

	flags, err := roomRepo.ListTileFlags(ctx, roomID)
	if err != nil {
		log.Printf("Failed to list tile flags: %v", err)
		return
	}
	fmt.Printf("Tile flags: %d\n", len(flags))
	for _, f := range flags {
		fmt.Printf("  (%d,%d) locked=%t noPickup=%t\n", f.Position.X, f.Position.Y, f.Locked, f.NoPickup)
	}

	affs, err := roomRepo.ListAffordances(ctx, roomID)
	if err != nil {
		log.Printf("Failed to list affordances: %v", err)
		return
	}
	fmt.Printf("Affordances: %d\n", len(affs))
	for _, a := range affs {
		fmt.Printf("  (%d,%d) %s\n", a.Position.X, a.Position.Y, a.Kind)
	}

	roomItems, err := items.NewRedis(client).List(ctx, roomID)
	if err != nil {
		log.Printf("Failed to list items: %v", err)
		return
	}
	sort.Slice(roomItems, func(i, j int) bool { return roomItems[i].ID < roomItems[j].ID })
	fmt.Printf("Items: %d\n", len(roomItems))
	for _, item := range roomItems {
		fmt.Printf("  %s: %s [%s] at (%d,%d)\n", item.ID, item.Name, item.Kind, item.Position.X, item.Position.Y)
	}

	messages, err := chat.NewRedis(client).ListRecent(ctx, roomID, 10)
	if err != nil {
		log.Printf("Failed to list chat: %v", err)
		return
	}
	fmt.Printf("Recent chat: %d\n", len(messages))
	for _, msg := range messages {
		fmt.Printf("  [%s] %s: %s\n", msg.SentAt.Format("15:04:05"), msg.Username, msg.Body)
	}
}
