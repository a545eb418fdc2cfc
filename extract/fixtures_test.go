package extract

// HTML fixtures mirroring the two layouts the site renders for the same
// underlying result: "Architect (INTJ-A)" with mind=75 Introverted,
// energy=60 Intuitive, nature=55 Thinking, tactics=70 Judging,
// identity=80 Assertive.

const legacyResultHTML = `<html><body>
<h1 class="header__title">Architect (INTJ-A)</h1>
<div class="profile__traits--intl">
  <div class="traitbox">
    <div class="traitbox__text">
      <span class="traitbox__label">Mind: This trait determines how we interact with our environment.</span>
      <p class="traitbox__value"><span class="text--yellow">75%</span> Introverted</p>
    </div>
  </div>
  <div class="traitbox">
    <div class="traitbox__text">
      <span class="traitbox__label">Energy: This trait shows where we direct our mental energy.</span>
      <p class="traitbox__value"><span class="text--blue">60%</span> Intuitive</p>
    </div>
  </div>
  <div class="traitbox">
    <div class="traitbox__text">
      <span class="traitbox__label">Nature: This trait determines how we make decisions.</span>
      <p class="traitbox__value"><span class="text--green">55%</span> Thinking</p>
    </div>
  </div>
  <div class="traitbox">
    <div class="traitbox__text">
      <span class="traitbox__label">Tactics: This trait reflects our approach to planning.</span>
      <p class="traitbox__value"><span class="text--purple">70%</span> Judging</p>
    </div>
  </div>
  <div class="traitbox">
    <div class="traitbox__text">
      <span class="traitbox__label">Identity: This trait underpins all others.</span>
      <p class="traitbox__value"><span class="text--red">80%</span> Assertive</p>
    </div>
  </div>
</div>
</body></html>`

const redesignedResultHTML = `<html><body>
<div class="sp-typeheader">
  <h1 class="h1-phone">Architect</h1>
  <div class="code"><h1>INTJ-A</h1></div>
</div>
<div class="sp-card--traits">
  <div class="traitbox"><div class="sp-barlabel"><strong class="color--yellow">75%</strong> Introverted</div></div>
  <div class="traitbox"><div class="sp-barlabel"><strong class="color--blue">60%</strong> Intuitive</div></div>
  <div class="traitbox"><div class="sp-barlabel"><strong class="color--green">55%</strong> Thinking</div></div>
  <div class="traitbox"><div class="sp-barlabel"><strong class="color--purple">70%</strong> Judging</div></div>
  <div class="traitbox"><div class="sp-barlabel"><strong class="color--red">80%</strong> Assertive</div></div>
</div>
</body></html>`

// redesignedNoLabelsHTML drops the trailing type-label text nodes; types must
// come from the MBTI code instead.
const redesignedNoLabelsHTML = `<html><body>
<div class="sp-typeheader">
  <h1 class="h1-large-lgbp">Architect</h1>
  <div class="code"><h1>INTJ-A</h1></div>
</div>
<div class="sp-card--traits">
  <div class="traitbox"><div class="sp-barlabel"><strong class="color--yellow">75%</strong></div></div>
  <div class="traitbox"><div class="sp-barlabel"><strong class="color--blue">60%</strong></div></div>
  <div class="traitbox"><div class="sp-barlabel"><strong class="color--green">55%</strong></div></div>
  <div class="traitbox"><div class="sp-barlabel"><strong class="color--purple">70%</strong></div></div>
  <div class="traitbox"><div class="sp-barlabel"><strong class="color--red">80%</strong></div></div>
</div>
</body></html>`

const quizPageHTML = `<html><body>
<form data-quiz>
  <fieldset class="question" data-question="0">
    <div class="statement"><span class="header">You regularly make new friends.</span></div>
    <input type="radio" name="q0" value="3" aria-label="Agree" checked>
    <input type="radio" name="q0" value="-3" aria-label="Disagree">
  </fieldset>
  <fieldset class="question" data-question="1">
    <div class="statement"><span class="header">You spend a lot of your free time exploring random topics.</span></div>
    <input type="radio" name="q1" value="2" aria-label="Agree">
    <input type="radio" name="q1" value="-2" aria-label="Disagree">
  </fieldset>
  <fieldset class="question" data-question="2">
    <input type="radio" name="q2" value="1" aria-label="Slightly agree" checked>
  </fieldset>
</form>
</body></html>`

const quizPageUnansweredHTML = `<html><body>
<form data-quiz>
  <fieldset class="question" data-question="0">
    <div class="statement"><span class="header">You regularly make new friends.</span></div>
    <input type="radio" name="q0" value="3" aria-label="Agree">
    <input type="radio" name="q0" value="-3" aria-label="Disagree">
  </fieldset>
</form>
</body></html>`
