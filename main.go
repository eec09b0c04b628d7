package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"

	"github.com/jessevdk/go-flags"
)

const version = "colorize 1.0.0"

const detailedHelp = `Использование: colorize [опции] <файл>

Раскрашивает изображение по цветным штрихам. Пиксели с нейтральной цветностью
(Cb = Cr = 128 в YCbCr) считаются серыми и получают цвет от ближайших цветных
пикселей. Расстояние между соседними пикселями равно модулю разности яркостей,
поэтому цвет растекается внутри областей одинаковой яркости и останавливается
на границах. Каждый серый пиксель хранит до трёх разных цветов-кандидатов с
расстояниями; итоговый цвет — их среднее с весами distance^(-blend).

Опции:
  -o, --output   имя выходного файла (по умолчанию <файл>_color.png)
  -b, --blend    коэффициент смешивания 1..6 (по умолчанию 4): больше — резче границы
  -c, --cache    файл кэша карты смешивания
  -w, --workers  число потоков рендера (по умолчанию число CPU)
  -t, --tile     размер плитки рендера в пикселях (по умолчанию 64)
      --stats    вывести статистику карты смешивания
      --verbose  подробный лог
  -s, --show     показать результат; клавиши 1..6 меняют коэффициент
  -v, --version  показать версию и выйти
  -h, --help     показать эту справку

Поддерживаемые форматы: PCX (8 бит), PNG, JPEG, GIF, BMP, TIFF, WebP (только чтение).
`

type Options struct {
	Output  string `short:"o" long:"output" description:"Имя выходного файла"`
	Blend   int    `short:"b" long:"blend" default:"4" description:"Коэффициент смешивания 1..6"`
	Cache   string `short:"c" long:"cache" description:"Файл кэша карты смешивания"`
	Workers int    `short:"w" long:"workers" description:"Число потоков рендера"`
	Tile    int    `short:"t" long:"tile" default:"64" description:"Размер плитки рендера"`
	Stats   bool   `long:"stats" description:"Статистика карты смешивания"`
	Verbose bool   `long:"verbose" description:"Подробный лог"`
	Show    bool   `short:"s" long:"show" description:"Отобразить изображение после раскраски"`
	Version bool   `short:"v" long:"version" description:"Показать версию и выйти"`
	Help    bool   `short:"h" long:"help" description:"Показать справку с описанием алгоритма"`
}

func main() {
	var opts Options

	parser := flags.NewParser(&opts, flags.IgnoreUnknown)
	args, err := parser.Parse()
	if opts.Help {
		fmt.Print(detailedHelp)
		return
	}
	if opts.Version {
		fmt.Println(version)
		return
	}
	if err != nil || len(args) == 0 || opts.Blend < MinBlendFactor || opts.Blend > MaxBlendFactor {
		fmt.Print(detailedHelp)
		os.Exit(1)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	inputFile := args[0]
	outputFile := opts.Output

	// Если `--output` не указан, используем `<input>_color.png`
	if outputFile == "" {
		outputFile = strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + "_color.png"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cancelled := func() bool { return ctx.Err() != nil }

	srcCh := make(chan *ImageData, 1)
	outCh := make(chan *ImageData, 1)
	errCh := make(chan error, 3)
	done := make(chan struct{}, 1)

	var (
		original *ImageData
		session  *Session
	)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		defer close(srcCh)
		img, err := LoadImage(inputFile)
		if err != nil {
			errCh <- err
			return
		}
		original = img
		srcCh <- img
	}()

	go func() {
		defer wg.Done()
		defer close(outCh)
		for img := range srcCh {
			pic := NewPicture(img)
			s := NewSession(pic)
			if err := prepareSession(s, opts.Cache, cancelled); err != nil {
				errCh <- err
				return
			}
			if opts.Stats {
				logSummary(Summarize(s.BlendMap(), pic))
			}
			colored, err := s.Render(opts.Blend, opts.Tile, opts.Workers)
			if err != nil {
				errCh <- err
				return
			}
			session = s
			outCh <- colored.ImageData()
		}
	}()

	go func() {
		defer wg.Done()
		for img := range outCh {
			if err := SaveImage(outputFile, img); err != nil {
				errCh <- err
				return
			}
			done <- struct{}{}
		}
	}()

	wg.Wait()
	select {
	case err := <-errCh:
		if errors.Is(err, ErrCancelled) {
			log.Println("Раскраска прервана")
			os.Exit(1)
		}
		log.Fatalf("Ошибка в конвейере: %v", err)
	case <-done:
		log.Println("Файл успешно записан:", filepath.Join(".", outputFile))
	}

	if opts.Show {
		if err := showPreview(original, session, opts.Blend, &opts); err != nil {
			log.Fatalf("Ошибка SDL: %v", err)
		}
	}
}

// prepareSession берёт карту из кэша, если он подходит, иначе строит её
// и сохраняет в кэш.
func prepareSession(s *Session, cachePath string, cancelled func() bool) error {
	if cachePath != "" {
		m, err := loadCache(cachePath, s.Source())
		switch {
		case err == nil:
			if err := s.Restore(m); err != nil {
				logger().Warn("кэш не подходит", "path", cachePath, "err", err)
				break
			}
			logger().Info("карта смешивания загружена из кэша", "path", cachePath)
			return nil
		case !errors.Is(err, os.ErrNotExist):
			logger().Warn("кэш не прочитан", "path", cachePath, "err", err)
		}
	}
	if err := s.Prepare(cancelled); err != nil {
		return err
	}
	if cachePath != "" {
		if err := saveCache(cachePath, s.BlendMap(), s.Source()); err != nil {
			return fmt.Errorf("запись кэша: %w", err)
		}
	}
	return nil
}

func loadCache(path string, p *Picture) (*BlendMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBlendMap(f, p)
}

func saveCache(path string, m *BlendMap, p *Picture) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBlendMap(f, m, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func logSummary(s Summary) {
	logger().Info("статистика карты смешивания",
		"targets", s.Targets,
		"covered", s.Covered,
		"unreached", s.Unreached,
		"len1", s.Lengths[1],
		"len2", s.Lengths[2],
		"len3", s.Lengths[3],
		"mean", s.MeanDistance,
		"std", s.StdDistance,
		"max", s.MaxDistance,
	)
}
