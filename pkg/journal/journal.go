package journal

import (
	"bufio"
	"bytes"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// 自己定義常用的權限常量
const (
	// rw-r--r-- (擁有者讀寫，其他人唯讀) - 適用於大多數檔案
	FileModeReadOnly fs.FileMode = 0644

	// rw------- (只有擁有者可讀寫) - 適用於私鑰、機密檔
	FileModePrivate fs.FileMode = 0600
)

// Journal 是只能追加的文字檔，一行一筆
// 不持有檔案，每次 Append 都重新開檔，呼叫端負責序列化寫入
type Journal struct {
	path string
	sync bool
}

// Option 定義了 Journal 的配置選項函數
type Option func(*Journal)

// WithSync 每次追加後是否強制刷入硬碟
func WithSync(sync bool) Option {
	return func(j *Journal) {
		j.sync = sync
	}
}

// New 建立指向 path 的 Journal (不會建立檔案)
func New(path string, opts ...Option) *Journal {
	j := &Journal{path: path, sync: true}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Path 檔案路徑
func (j *Journal) Path() string {
	return j.path
}

// Append 追加一行
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func (j *Journal) Append(line string) error {
	file, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, FileModeReadOnly)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(file, line+"\n"); err != nil {
		file.Close()
		return err
	}
	if j.sync {
		if err := file.Sync(); err != nil {
			file.Close()
			return err
		}
	}
	return file.Close()
}

// Lines 從頭逐行讀取，每次迭代都重新開檔
// 檔案不存在時為空序列
func (j *Journal) Lines() iter.Seq2[string, error] {
	return Lines(j.path)
}

// Lines 從頭逐行讀取 path
// 只回傳以換行結尾的完整行，檔尾尚未寫完的半行會被略過
func Lines(path string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		file, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				yield("", err)
			}
			return
		}
		defer file.Close()

		scanner := bufio.NewScanner(file)
		scanner.Split(scanCompleteLines)
		for scanner.Scan() {
			if !yield(scanner.Text(), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", err)
		}
	}
}

// scanCompleteLines 與 bufio.ScanLines 相同，但 EOF 前沒有 \n 的殘行不算一行
func scanCompleteLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, bytes.TrimSuffix(data[:i], []byte{'\r'}), nil
	}
	if atEOF {
		return len(data), nil, nil
	}
	return 0, nil, nil
}

// Rewrite 整份覆寫 path
// 先寫入同目錄的 .tmp 檔，完成後再 rename 取代原檔，中途失敗原檔不會損壞
func Rewrite(path string, write func(w io.Writer) error) error {
	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, FileModeReadOnly)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	if err := write(w); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, filepath.Clean(path))
}
