package archiver

import (
	"fmt"
	"io/fs"

	"github.com/dustin/go-humanize"

	"github.com/Coobeliues/vector-search/pkg/archive"
)

// Fixed operator-facing report text. Presentation only, never validated
// against the archive contents.
const (
	msgStart       = "📦 Архивирование проекта %s..."
	msgDone        = "✅ Готово! Архив создан: %s"
	msgFailed      = "❌ Ошибка: не удалось создать архив"
	msgListingHead = "📋 Содержимое архива (первые %d файлов):"
	msgListingMore = "... и другие файлы"
)

// nextSteps is printed verbatim at the end of every success report.
const nextSteps = `
📝 Для распаковки на другом компьютере:
   tar -xzf vector_search_project.tar.gz
   cd Vector_search
   Читайте STARTUP_GUIDE.md для запуска проекта
`

func (p *Packer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Packer) reportStart(projectName string) {
	p.printf(msgStart+"\n", projectName)
}

// reportFailure prints the failure notice. No listing follows a failure.
func (p *Packer) reportFailure() {
	p.printf("%s\n", msgFailed)
}

// reportSuccess prints the done line, an ls -lh style stat line, the first
// limit archive members (a truncation marker follows when more exist), and
// the next-step block.
func (p *Packer) reportSuccess(res *Result, info fs.FileInfo, members []archive.Member, limit int) {
	p.printf("\n"+msgDone+"\n\n", res.OutputFile)
	p.printf("%s\n\n", statLine(info, res.OutputFile))
	p.printf(msgListingHead+"\n", limit)
	for i, m := range members {
		if i >= limit {
			p.printf("%s\n", msgListingMore)
			break
		}
		p.printf("   %s\n", m.Name)
	}
	p.printf("%s", nextSteps)
}

// statLine renders mode, human-readable size, modification time and path the
// way ls -lh would.
func statLine(info fs.FileInfo, path string) string {
	return fmt.Sprintf("%s  %s  %s  %s",
		info.Mode().String(),
		humanize.IBytes(uint64(info.Size())),
		info.ModTime().Format("2006-01-02 15:04"),
		path)
}
