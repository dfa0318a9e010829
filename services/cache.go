package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const quizDetailsTTL = 5 * time.Minute

func quizDetailsKey(userID uuid.UUID, quizID uint) string {
	return fmt.Sprintf("quiz:details:%s:%d", userID, quizID)
}

// invalidateQuizDetails drops the cached detail view after a mutation. Cache
// errors are ignored: redis being down must not fail the request.
func invalidateQuizDetails(ctx context.Context, rdb *redis.Client, userID uuid.UUID, quizID uint) {
	if rdb == nil {
		return
	}
	rdb.Del(ctx, quizDetailsKey(userID, quizID))
}
