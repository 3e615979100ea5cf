// Copyright 2026 The autometa Authors
// This file is part of the autometa library.
//
// The autometa library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The autometa library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the autometa library. If not, see <http://www.gnu.org/licenses/>.

package queue

import (
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"

	"github.com/autometa/engine/internal/log"
)

var logger = log.NewModuleLogger(log.Queue)

// listKey is the single Redis list the scheduler and worker share,
// named to match the original source's "workflow_jobs" key so the two
// can coexist with the Python implementation during a rollout.
const listKey = "workflow_jobs"

// DefaultPopTimeout is how long Pop blocks waiting for a job before
// returning with no job and no error, per queue.py's pop_job default.
const DefaultPopTimeout = 5 * time.Second

// JobQueue wraps a redis.Client with the RPUSH/BLPOP job-handoff API the
// scheduler and worker use.
type JobQueue struct {
	client *redis.Client
}

// New dials redisURL and verifies connectivity with a PING, matching
// queue.py's constructor behavior of failing fast on a bad connection.
func New(redisURL string) (*JobQueue, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opt)
	if err := client.Ping().Err(); err != nil {
		return nil, errors.Wrap(err, "connect to redis")
	}
	logger.Info("job queue initialized", "redis_url", redisURL)
	return &JobQueue{client: client}, nil
}

// Push enqueues job at the tail of the list.
func (q *JobQueue) Push(job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "marshal job")
	}
	if err := q.client.RPush(listKey, raw).Err(); err != nil {
		return errors.Wrap(err, "rpush job")
	}
	logger.Debug("enqueued job", "workflow_id", job.WorkflowID)
	return nil
}

// Pop blocks up to timeout for a job at the head of the list. It
// returns (Job{}, false, nil) on a timeout, not an error.
func (q *JobQueue) Pop(timeout time.Duration) (Job, bool, error) {
	result, err := q.client.BLPop(timeout, listKey).Result()
	if err == redis.Nil {
		return Job{}, false, nil
	}
	if err != nil {
		return Job{}, false, errors.Wrap(err, "blpop job")
	}
	// BLPop returns [key, value]; queue.py's pop_job unpacks the same pair.
	if len(result) != 2 {
		return Job{}, false, errors.New("unexpected blpop reply shape")
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return Job{}, false, errors.Wrap(err, "unmarshal job")
	}
	logger.Debug("dequeued job", "workflow_id", job.WorkflowID)
	return job, true, nil
}

// Len reports the current queue depth.
func (q *JobQueue) Len() (int64, error) {
	n, err := q.client.LLen(listKey).Result()
	if err != nil {
		return 0, errors.Wrap(err, "llen")
	}
	return n, nil
}

// Peek returns the head-of-queue job without removing it.
func (q *JobQueue) Peek() (Job, bool, error) {
	raw, err := q.client.LIndex(listKey, 0).Result()
	if err == redis.Nil {
		return Job{}, false, nil
	}
	if err != nil {
		return Job{}, false, errors.Wrap(err, "lindex")
	}
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return Job{}, false, errors.Wrap(err, "unmarshal job")
	}
	return job, true, nil
}

// Clear empties the queue and reports how many jobs were dropped.
func (q *JobQueue) Clear() (int64, error) {
	n, err := q.client.LLen(listKey).Result()
	if err != nil {
		return 0, errors.Wrap(err, "llen")
	}
	if err := q.client.Del(listKey).Err(); err != nil {
		return 0, errors.Wrap(err, "del")
	}
	logger.Warn("queue cleared", "removed", n)
	return n, nil
}
