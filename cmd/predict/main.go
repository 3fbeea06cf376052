// Офлайн-прогноз по батчу магазинов: порт predict_sales из исторического
// пайплайна. Читает CSV без целевой колонки, прогоняет его через
// обученный артефакт и пишет тот же CSV с колонкой Sales_Predicted.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milleralan1/sales-prediction-api/internal/model"
	"github.com/milleralan1/sales-prediction-api/internal/models"
	"github.com/milleralan1/sales-prediction-api/internal/services"
	"github.com/milleralan1/sales-prediction-api/pkg/utils"
)

func main() {
	var (
		input     = flag.String("input", "TEST_FINAL.csv", "CSV-файл с магазинами для прогноза")
		artifactP = flag.String("model", "sales_model.json", "путь к артефакту модели")
		output    = flag.String("output", "submission.csv", "путь для результата")
	)
	flag.Parse()

	log.Println("Loading model...")
	artifact, err := model.LoadArtifact(*artifactP)
	if err != nil {
		log.Fatalf("Ошибка загрузки модели: %v", err)
	}

	records, err := services.LoadCSV(*input)
	if err != nil {
		log.Fatalf("Ошибка загрузки данных: %v", err)
	}

	log.Println("Making predictions...")
	vectors, err := artifact.Pipeline().Transform(records)
	if err != nil {
		log.Fatalf("Ошибка вычисления признаков: %v", err)
	}
	X, err := artifact.Encoder.Transform(vectors)
	if err != nil {
		log.Fatalf("Ошибка кодирования признаков: %v", err)
	}
	preds := artifact.Regressor.PredictBatch(X)

	if err := writeSubmission(*output, records, preds); err != nil {
		log.Fatalf("Ошибка записи результата: %v", err)
	}
	log.Printf("Предсказания сохранены в %s (%d строк)", *output, len(records))
}

// writeSubmission пишет входные строки с добавленной колонкой прогноза
func writeSubmission(path string, records []models.Record, preds []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"Store_id", "Store_Type", "Location_Type", "Region_Code", "Date", "Holiday", "Discount", "Sales_Predicted"}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, r := range records {
		row := []string{
			r.StoreID,
			r.StoreType,
			r.LocationType,
			r.RegionCode,
			r.Date.Format("2006-01-02"),
			fmt.Sprintf("%d", r.Holiday),
			fmt.Sprintf("%d", r.Discount),
			fmt.Sprintf("%.2f", utils.SafeFloat(preds[i])),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
