package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"quill/internal/diag"
	"quill/internal/lexer"
	"quill/internal/parser"
	"quill/internal/pipeline"
	"quill/internal/source"
	"quill/internal/syntax"
)

// ParseDirResult содержит результат разбора одного файла
type ParseDirResult struct {
	Path   string        // Относительный путь к файлу
	FileID source.FileID // ID файла в FileSet
	Tree   *syntax.Tree  // Дерево разобранного файла (nil при ошибке загрузки)
	Bag    *diag.Bag     // Диагностики
}

// listQLFiles возвращает отсортированный список всех *.ql файлов в директории
func listQLFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".ql") {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ListSourceFiles returns the sorted *.ql files under dir.
func ListSourceFiles(dir string) ([]string, error) {
	return listQLFiles(dir)
}

// ParseDir парсит все *.ql файлы в директории параллельно. Порядок
// результатов совпадает с отсортированным списком путей.
func ParseDir(ctx context.Context, dir string, maxDiagnostics, jobs int, progress pipeline.ProgressSink) (*source.FileSet, *source.Interner, []ParseDirResult, error) {
	// Собираем список файлов
	files, err := listQLFiles(dir)
	if err != nil {
		return nil, nil, nil, err
	}

	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), source.NewInterner(), nil, nil
	}

	// Создаём FileSet и предзагружаем все файлы
	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))

	for _, path := range files {
		var fileID source.FileID
		fileID, err = fileSet.Load(path)
		if err != nil {
			// Сохраняем ошибку загрузки для последующей обработки
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	// Создаём общий потокобезопасный interner
	interner := source.NewInterner()

	// Настраиваем параллелизм
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]ParseDirResult, len(files))

	// Параллельный парсинг
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				// Проверка отмены
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				started := time.Now()
				emit(progress, pipeline.Event{Name: path, Stage: pipeline.StageParse, Status: pipeline.StatusWorking})

				// Создаём bag для диагностик
				bag := diag.NewBag(maxDiagnostics)

				// Проверяем ошибку загрузки
				if loadErr, hadError := loadErrors[path]; hadError {
					results[i] = ParseDirResult{
						Path:   path,
						FileID: 0,
						Tree:   nil,
						Bag:    bag,
					}
					bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
					emit(progress, pipeline.Event{Name: path, Stage: pipeline.StageParse, Status: pipeline.StatusError, Err: loadErr, Elapsed: time.Since(started)})
					return nil
				}

				fileID := fileIDs[path]
				file := fileSet.Get(fileID)

				// Лексер пишет в тот же bag, что и парсер
				lx := lexer.New(file, lexer.Options{Reporter: &lexer.ReporterAdapter{Bag: bag}})

				maxErrors, convErr := safecast.Conv[uint](maxDiagnostics)
				if convErr != nil {
					panic(fmt.Errorf("maxDiagnostics overflow: %w", convErr))
				}

				opts := parser.Options{
					Reporter:  diag.BagReporter{Bag: bag},
					MaxErrors: maxErrors,
				}

				result := parser.ParseFile(fileID, lx, interner, opts)

				// Сохраняем результат (мьютекс не нужен — индекс i уникален)
				results[i] = ParseDirResult{
					Path:   path,
					FileID: fileID,
					Tree:   result.Tree,
					Bag:    bag,
				}

				emit(progress, pipeline.Event{Name: path, Stage: pipeline.StageParse, Status: pipeline.StatusDone, Elapsed: time.Since(started)})
				return nil
			}
		}(i, path))
	}

	// Ждём завершения всех горутин
	if err := g.Wait(); err != nil {
		return fileSet, interner, results, err
	}

	return fileSet, interner, results, nil
}

// LoadDir парсит директорию и собирает Program; диагностики всех файлов
// сливаются в один bag в порядке файлов.
func LoadDir(ctx context.Context, dir string, maxDiagnostics, jobs int, progress pipeline.ProgressSink) (Program, *diag.Bag, error) {
	fileSet, _, results, err := ParseDir(ctx, dir, maxDiagnostics, jobs, progress)
	if err != nil {
		return Program{}, nil, err
	}

	bag := diag.NewBag(maxDiagnostics)
	units := make([]*syntax.Tree, 0, len(results))
	for _, res := range results {
		bag.Merge(res.Bag)
		if res.Tree != nil {
			units = append(units, res.Tree)
		}
	}
	return NewProgram(fileSet, units), bag, nil
}

func emit(sink pipeline.ProgressSink, evt pipeline.Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
