package progression

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/lac-hong-legacy/codequest_api/model"
)

const (
	DailyChallengeSize = 5
	DayLayout          = "2006-01-02"

	TaskKindMultipleChoice = "multiple_choice"
	TaskKindText           = "text"
	TaskKindCode           = "code"
)

// Task is the uniform shape every daily challenge item is rendered in,
// whatever record it came from.
type Task struct {
	ID       string          `json:"id"`
	Question string          `json:"question"`
	Options  model.ChoiceSet `json:"options"`
	Type     string          `json:"type"`
	Context  string          `json:"context"`
	Answer   string          `json:"answer"`
}

// DayKey formats the calendar day of t in t's location.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// DailySeed derives the sampler seed from user id and calendar day.
func DailySeed(userID string, day time.Time) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(userID + DayKey(day)))
	return int64(h.Sum64())
}

// SampleTasks draws min(len(pool), size) tasks without replacement. The same
// pool and seed always give the same ordered result. pool is not modified.
func SampleTasks(pool []Task, seed int64, size int) []Task {
	n := len(pool)
	if size > n {
		size = n
	}
	if size <= 0 {
		return []Task{}
	}

	rng := rand.New(rand.NewSource(seed))
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	out := make([]Task, 0, size)
	for i := 0; i < size; i++ {
		j := i + rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, pool[idx[i]])
	}
	return out
}

// BuildPool converts exercises then game tasks into Tasks, in input order.
// Game tasks without an answer are dropped.
func BuildPool(exercises []model.Exercise, gameTasks []model.GameTask) []Task {
	pool := make([]Task, 0, len(exercises)+len(gameTasks))
	for _, ex := range exercises {
		pool = append(pool, TaskFromExercise(ex))
	}
	for _, gt := range gameTasks {
		if task, ok := TaskFromGameTask(gt); ok {
			pool = append(pool, task)
		}
	}
	return pool
}

func TaskFromExercise(ex model.Exercise) Task {
	choices := ex.Choices()
	kind := TaskKindText
	if choices.IsMultipleChoice() {
		kind = TaskKindMultipleChoice
	}
	return Task{
		ID:       "exercise-" + ex.ID,
		Question: ex.Question,
		Options:  choices,
		Type:     kind,
		Answer:   ex.Answer,
	}
}

// TaskFromGameTask reinterprets the task payload by task type. ok is false
// when no answer can be derived.
func TaskFromGameTask(gt model.GameTask) (Task, bool) {
	var data map[string]interface{}
	if len(gt.TaskData) > 0 {
		if err := json.Unmarshal(gt.TaskData, &data); err != nil {
			return Task{}, false
		}
	}

	task := Task{
		ID:      "game-task-" + gt.ID,
		Type:    TaskKindCode,
		Options: model.ChoiceSet{Kind: model.ChoiceFreeText},
	}

	switch gt.TaskType {
	case model.TaskTypeMemoryCode:
		task.Question = "Memorize this code and type it back exactly."
		task.Context = stringField(data, "code")
		task.Answer = task.Context
	case model.TaskTypeRefactor:
		task.Question = stringFieldOr(data, "instruction", "Refactor this code.")
		task.Context = stringField(data, "bad_code")
		task.Answer = stringField(data, "refactored_code")
	case model.TaskTypeVariableHunt:
		task.Question = stringFieldOr(data, "question", "Which variable holds the value described in this code?")
		task.Context = stringField(data, "code")
		task.Answer = stringField(data, "correct_variable")
	case model.TaskTypeBugInfection:
		task.Question = stringFieldOr(data, "question", "Name the bugs in this code.")
		task.Context = stringField(data, "code")
		task.Answer = strings.Join(listField(data, "correct_bugs"), ", ")
	default:
		task.Question = stringFieldOr(data, "question", fmt.Sprintf("Solve this %s task.", gt.TaskType))
		task.Context = stringField(data, "code")
		task.Answer = stringField(data, "answer")
	}

	if strings.TrimSpace(task.Answer) == "" {
		return Task{}, false
	}
	return task, true
}

func stringField(data map[string]interface{}, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func stringFieldOr(data map[string]interface{}, key, fallback string) string {
	if s := stringField(data, key); s != "" {
		return s
	}
	return fallback
}

func listField(data map[string]interface{}, key string) []string {
	switch v := data[key].(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}
