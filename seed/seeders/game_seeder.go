package seeders

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lac-hong-legacy/codequest_api/model"
)

// GameSeeder seeds the mini-games and their task pools
type GameSeeder struct {
	db *gorm.DB
}

func NewGameSeeder(db *gorm.DB) *GameSeeder {
	return &GameSeeder{db: db}
}

type taskSeed struct {
	language string
	data     string
}

type gameSeed struct {
	slug        string
	title       string
	description string
	difficulty  string
	taskType    string
	xpReward    int
	tasks       []taskSeed
}

func (s *GameSeeder) SeedGames() error {
	for _, g := range gameCatalog() {
		gameID := "game_" + g.slug
		game := model.Game{
			ID:          gameID,
			Slug:        g.slug,
			Title:       g.title,
			Description: g.description,
			Difficulty:  g.difficulty,
			XPReward:    g.xpReward,
		}
		if err := insertMissing(s.db, &game, "game", g.slug); err != nil {
			return err
		}

		for i, t := range g.tasks {
			task := model.GameTask{
				ID:       fmt.Sprintf("%s_t%d", gameID, i+1),
				GameID:   gameID,
				TaskType: g.taskType,
				Language: t.language,
				TaskData: datatypes.JSON(t.data),
				Order:    i + 1,
				XPReward: g.xpReward,
			}
			if err := insertMissing(s.db, &task, "task", task.ID); err != nil {
				return err
			}
		}
	}

	log.Info("Game seeding completed")
	return nil
}

func gameCatalog() []gameSeed {
	return []gameSeed{
		{
			slug:        "memory-code",
			title:       "Memory of Code",
			description: "Remember and reproduce code fragments",
			difficulty:  "Easy",
			taskType:    model.TaskTypeMemoryCode,
			xpReward:    50,
			tasks: []taskSeed{
				{language: "javascript", data: `{"code":"const total = items.reduce((sum, x) => sum + x, 0);"}`},
				{language: "javascript", data: `{"code":"for (let i = 0; i < 3; i++) {\n  console.log(i);\n}"}`},
				{language: "python", data: `{"code":"squares = [n * n for n in range(5)]"}`},
			},
		},
		{
			slug:        "refactor-rush",
			title:       "Refactor Rush",
			description: "Fix and simplify bad code",
			difficulty:  "Medium",
			taskType:    model.TaskTypeRefactor,
			xpReward:    75,
			tasks: []taskSeed{
				{language: "javascript", data: `{"instruction":"Replace the loop with a single array method.","bad_code":"let out = [];\nfor (let i = 0; i < nums.length; i++) {\n  out.push(nums[i] * 2);\n}","refactored_code":"const out = nums.map(n => n * 2);"}`},
				{language: "python", data: `{"instruction":"Use a comprehension.","bad_code":"evens = []\nfor n in nums:\n    if n % 2 == 0:\n        evens.append(n)","refactored_code":"evens = [n for n in nums if n % 2 == 0]"}`},
			},
		},
		{
			slug:        "variable-hunt",
			title:       "Variable Hunt",
			description: "Find incorrectly used variables",
			difficulty:  "Medium",
			taskType:    model.TaskTypeVariableHunt,
			xpReward:    75,
			tasks: []taskSeed{
				{language: "javascript", data: `{"instruction":"Which variable is used before it is declared?","code":"console.log(total);\nlet total = price * qty;","variables":["total","price","qty"],"correct_variable":"total"}`},
				{language: "python", data: `{"instruction":"Which variable is never defined?","code":"width = 4\narea = width * height","variables":["width","area","height"],"correct_variable":"height"}`},
			},
		},
		{
			slug:        "bug-infection",
			title:       "Bug Infection",
			description: "Stop bugs from spreading in code",
			difficulty:  "Hard",
			taskType:    model.TaskTypeBugInfection,
			xpReward:    100,
			tasks: []taskSeed{
				{language: "javascript", data: `{"instruction":"Select every buggy line.","code":"function avg(xs) {\n  let sum = 0;\n  for (let i = 0; i <= xs.length; i++) sum += xs[i];\n  return sum / xs.lenght;\n}","bugs":[3,4],"correct_bugs":[3,4]}`},
				{language: "python", data: `{"instruction":"Select every buggy line.","code":"def first(xs):\n    if len(xs) = 0:\n        return None\n    return xs[1]","bugs":[2,4],"correct_bugs":[2,4]}`},
			},
		},
	}
}
