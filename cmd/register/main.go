package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/SudilMin/Devthon-website/internal/client"
	"github.com/SudilMin/Devthon-website/internal/form"
)

func main() {
	apiURL := flag.String("api", "http://localhost:3000", "базовый URL API регистрации")
	webhookURL := flag.String("webhook", os.Getenv("SHEETS_WEBHOOK_URL"), "URL веб-хука таблицы (необязательно)")
	answersPath := flag.String("answers", "", "YAML файл с ответами формы (ключи = имена полей)")
	timeout := flag.Duration("timeout", 30*time.Second, "таймаут отправки")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	answers, err := loadAnswers(*answersPath)
	if err != nil {
		log.Fatalf("Не удалось прочитать ответы: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := form.New()
	in := bufio.NewReader(os.Stdin)

	if err := fill(c, answers, in, os.Stdout); err != nil {
		log.Fatalf("Форма не заполнена: %v", err)
	}

	submitCtx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	httpClient := &http.Client{Timeout: *timeout}
	submitter := client.New(*apiURL, *webhookURL, httpClient, logger)

	outcome, err := c.Submit(submitCtx, submitter)
	if err != nil {
		log.Fatalf("Отправка невозможна: %v", err)
	}

	fmt.Println(c.Feedback().Text())
	if !outcome.OK() {
		os.Exit(1)
	}
}

// loadAnswers читает заранее подготовленные ответы формы
func loadAnswers(path string) (map[string]string, error) {
	answers := map[string]string{}
	if path == "" {
		return answers, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return answers, nil
}

// fill проходит по разделам формы. Поля без готового ответа запрашиваются
// в терминале, ввод "<" возвращает к предыдущему разделу. В уже пройденном
// разделе запрашивается каждое поле, пустой ввод оставляет текущее значение.
func fill(c *form.Controller, answers map[string]string, in *bufio.Reader, out io.Writer) error {
	furthest := c.Current()
	retry := false
	for {
		if furthest > c.Total() {
			furthest = c.Total()
		}
		section := c.Section()
		revisit := c.Current() < furthest && !retry
		fmt.Fprintf(out, "\n== %s ==\n", c.ProgressLabel())

		back := false
		for _, f := range section.Fields {
			current := c.Value(f.Name)
			if !revisit {
				if v, ok := answers[f.Name]; ok && current == "" {
					c.Set(f.Name, v)
					continue
				}
				if current != "" && c.Focused() != f.Name {
					continue
				}
			}
			v, err := prompt(in, out, f, current)
			if err != nil {
				return err
			}
			if v == "<" {
				back = true
				break
			}
			c.Set(f.Name, v)
		}

		if back {
			c.Prev()
			retry = false
			continue
		}

		last := c.IsLast()
		err := c.ValidateSection()
		if err == nil {
			retry = false
			if last {
				return nil
			}
			if err := c.Next(); err != nil {
				return err
			}
			if c.Current() > furthest {
				furthest = c.Current()
			}
			continue
		}

		var fe *form.FieldError
		if !errors.As(err, &fe) {
			return err
		}
		fmt.Fprintf(out, "! %s\n", fe.Message)
		c.Set(fe.Field, "")
		delete(answers, fe.Field)
		retry = true
	}
}

// prompt читает одно поле. Пустой ввод возвращает значение по умолчанию.
func prompt(in *bufio.Reader, out io.Writer, f form.Field, def string) (string, error) {
	label := f.Label
	if len(f.Options) > 0 {
		label += " [" + strings.Join(f.Options, " | ") + "]"
	}
	if f.Hint != "" {
		label += " (" + f.Hint + ")"
	}
	if !f.Required {
		label += " (optional)"
	}
	if def != "" {
		label += " {" + def + "}"
	}
	fmt.Fprintf(out, "%s: ", label)

	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	if v := strings.TrimSpace(line); v != "" {
		return v, nil
	}
	return def, nil
}
