// Package archive stores finished games as parquet files, one file per game.
package archive

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

type PlyRecord struct {
	Ply      int32  `parquet:"name=ply, type=INT32"`
	Side     string `parquet:"name=side, type=BYTE_ARRAY, convertedtype=UTF8"`
	UCI      string `parquet:"name=uci, type=BYTE_ARRAY, convertedtype=UTF8"`
	Piece    string `parquet:"name=piece, type=BYTE_ARRAY, convertedtype=UTF8"`
	Captured string `parquet:"name=captured, type=BYTE_ARRAY, convertedtype=UTF8"`
	Castle   bool   `parquet:"name=castle, type=BOOLEAN"`
	Promoted bool   `parquet:"name=promoted, type=BOOLEAN"`
}

type Record struct {
	GameID       string      `parquet:"name=game_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Wraparound   bool        `parquet:"name=wraparound, type=BOOLEAN"`
	RandomArmies bool        `parquet:"name=random_armies, type=BOOLEAN"`
	Opponent     string      `parquet:"name=opponent, type=BYTE_ARRAY, convertedtype=UTF8"`
	Difficulty   int32       `parquet:"name=difficulty, type=INT32"`
	StartFEN     string      `parquet:"name=start_fen, type=BYTE_ARRAY, convertedtype=UTF8"`
	FinalFEN     string      `parquet:"name=final_fen, type=BYTE_ARRAY, convertedtype=UTF8"`
	Result       string      `parquet:"name=result, type=BYTE_ARRAY, convertedtype=UTF8"`
	Winner       string      `parquet:"name=winner, type=BYTE_ARRAY, convertedtype=UTF8"`
	MoveCount    int32       `parquet:"name=move_count, type=INT32"`
	DurationMS   int64       `parquet:"name=duration_ms, type=INT64"`
	FinishedAt   int64       `parquet:"name=finished_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Plies        []PlyRecord `parquet:"name=plies, type=LIST"`
}

// Writer writes records under a fixed directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, errors.New("archive directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

func (w *Writer) Path(gameID string) string {
	return filepath.Join(w.dir, gameID+".parquet")
}

// WriteGame writes one record to <dir>/<gameID>.parquet, replacing any
// earlier file for the same game.
func (w *Writer) WriteGame(rec Record) (string, error) {
	if rec.GameID == "" {
		return "", errors.New("record has no game id")
	}
	path := w.Path(rec.GameID)
	if err := writeRecords(path, []Record{rec}); err != nil {
		return "", err
	}
	log.Printf("archive: wrote game %s to %s", rec.GameID, path)
	return path, nil
}

func writeRecords(path string, records []Record) error {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(Record), 1)
	if err != nil {
		return err
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range records {
		if err := parquetWriter.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", rec.GameID, err)
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return err
	}
	return fileWriter.Close()
}

// ReadFile reads every record stored in one archive file.
func ReadFile(path string) ([]Record, error) {
	fileReader, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(Record), 1)
	if err != nil {
		return nil, err
	}
	defer parquetReader.ReadStop()

	num := int(parquetReader.GetNumRows())
	records := make([]Record, num)
	if num == 0 {
		return records, nil
	}
	if err := parquetReader.Read(&records); err != nil {
		return nil, err
	}
	return records, nil
}
