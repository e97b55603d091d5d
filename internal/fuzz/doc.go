// Package fuzztests houses Go fuzz harnesses for the dust front end
// (source -> lexer -> parser). The harnesses look for panics, hangs and
// broken tree invariants on arbitrary inputs.
//
// Назначение: загрузить байты в FileSet и прогнать их через лексер/парсер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
