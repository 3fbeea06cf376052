// Офлайн-обучение модели прогноза продаж: порт train_model из
// исторического пайплайна. Читает батч наблюдений из CSV или из базы,
// подбирает гиперпараметры случайным поиском с time-series
// кросс-валидацией и сохраняет артефакт модели.
package main

import (
	"flag"
	"log"

	"github.com/milleralan1/sales-prediction-api/config"
	"github.com/milleralan1/sales-prediction-api/internal/database"
	"github.com/milleralan1/sales-prediction-api/internal/models"
	"github.com/milleralan1/sales-prediction-api/internal/services"
)

func main() {
	var (
		input  = flag.String("input", "TRAIN.csv", "CSV-файл с историческими наблюдениями")
		output = flag.String("output", "sales_model.json", "путь для сохранения артефакта модели")
		fromDB = flag.Bool("from-db", false, "читать наблюдения из базы данных вместо CSV")
		trials = flag.Int("trials", 5, "количество trial'ов случайного поиска")
		seed   = flag.Int64("seed", 42, "seed случайного поиска")
	)
	flag.Parse()

	config.InitLogger()

	var records []models.Record
	if *fromDB {
		cfg := config.Load()
		db, err := database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("Ошибка подключения к БД: %v", err)
		}
		observations, err := services.NewDataService(db).LoadObservations()
		if err != nil {
			log.Fatalf("Ошибка загрузки наблюдений: %v", err)
		}
		records = services.FromObservations(observations)
		log.Printf("Загружено наблюдений из базы: %d", len(records))
	} else {
		var err error
		records, err = services.LoadCSV(*input)
		if err != nil {
			log.Fatalf("Ошибка загрузки данных: %v", err)
		}
		log.Printf("Загружено строк из %s: %d", *input, len(records))
	}

	// нулевые продажи — закрытые дни, исключаются из обучения
	records = services.PrepareTraining(records)
	log.Printf("Строк после фильтрации нулевых продаж: %d", len(records))

	trainCfg := services.DefaultTrainConfig()
	trainCfg.Trials = *trials
	trainCfg.Seed = *seed

	artifact, err := services.Train(records, trainCfg)
	if err != nil {
		// ошибка обучения фатальна: артефакт не пишется
		log.Fatalf("Ошибка обучения: %v", err)
	}

	if err := artifact.Save(*output); err != nil {
		log.Fatalf("Ошибка сохранения артефакта: %v", err)
	}

	log.Printf("Модель сохранена в %s (версия %s, MAPE %.2f%%)",
		*output, artifact.Version, artifact.BestScore*100)
}
