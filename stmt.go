package main

import (
	"github.com/danswartzendruber/avl"
)

//
// A set of wrapper routines to the AVL package.  We do this to
// hide the AVL interface from the interpreter code, as well as
// providing debug/trace hooks.  The tree is the program store:
// ordered by statement number, O(log n) lookup for jumps, in-order
// iteration for fall-through
//

func initAvl() {

	g.program = nil
	g.whileMatch = make(map[int]int)
}

func stmtAvlTreeFirstInOrder() *stmtNode {

	p := avl.AvlTreeFirstInOrder(g.program)
	if p != nil {
		return p.(*stmtNode)
	} else {
		return nil
	}
}

func stmtAvlTreeInsert(stmt *stmtNode) {

	p := avl.AvlTreeInsert(&g.program, &stmt.avl, stmt, cmpIntSnode)
	if p != nil {
		fatalError("Stmt %d already in tree???", stmt.stmtNo)
	}

	setModified()
}

func stmtAvlTreeNextInOrder(stmt *stmtNode) *stmtNode {

	p := avl.AvlTreeNextInOrder(&stmt.avl)
	if p != nil {
		return p.(*stmtNode)
	} else {
		return nil
	}
}

//
// Find the next numbered statement after the given one, in ascending
// statement number order.  This is the fall-through successor
//

func stmtAvlTreeNextStmt(stmt *stmtNode) *stmtNode {

	basicAssert(stmt.stmtNo != 0, "stmt.stmtNo is 0")

	return stmtAvlTreeNextInOrder(stmtAvlTreeLookup(stmt.stmtNo))
}

func stmtAvlTreeLookup(key int) *stmtNode {

	p := avl.AvlTreeLookup(g.program, key, cmpIntKey)
	if p != nil {
		return p.(*stmtNode)
	} else {
		return nil
	}
}

func stmtAvlTreeRemove(stmt *stmtNode) {

	avl.AvlTreeRemove(&g.program, &stmt.avl)

	//
	// Tricky: g.program is the AVL root node, so when we delete the
	// last statement, the root node will become nil, at which point
	// we want to clear the modified flag (since the program is now
	// empty)
	//

	if g.program != nil {
		setModified()
	} else {
		clearModified()
	}
}

func cmpIntKey(key any, node any) int {

	return cmpIntItems(key.(int), node.(*stmtNode).stmtNo)
}

func cmpIntSnode(node1, node2 any) int {

	return cmpIntItems(node1.(*stmtNode).stmtNo, node2.(*stmtNode).stmtNo)
}

func cmpIntItems(item1, item2 int) int {

	if item1 < item2 {
		return -1
	} else if item1 > item2 {
		return 1
	} else {
		return 0
	}
}

//
// Insert a parsed statement, replacing any previous statement with
// the same number
//

func insertStmtNode(snode *stmtNode, stmtNo int) {

	stmt := stmtAvlTreeLookup(stmtNo)
	if stmt != nil {
		stmtAvlTreeRemove(stmt)
	}

	snode.stmtNo = stmtNo

	stmtAvlTreeInsert(snode)
}

func removeStmtNo(stmtNo int) {

	stmt := stmtAvlTreeLookup(stmtNo)
	if stmt != nil {
		stmtAvlTreeRemove(stmt)
	}
}

func setModified() {

	g.modified = true
}

func clearModified() {

	g.modified = false
}
